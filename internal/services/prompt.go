package services

import "fmt"

// Retrieval queries for the reference index. The index is keyed by
// content, so the queries describe the reference document wanted.
const (
	QueryJobDescription = "Backend Developer Job Description"
	QueryCVRubric       = "CV Evaluation Scoring Rubric"
	QueryCaseStudyBrief = "Case Study Brief"
	QueryProjectRubric  = "Project Deliverable Evaluation Scoring Rubric"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVEvaluationPrompt creates the CV evaluation prompt. The model is
// instructed to answer in the exact Match Rate/Feedback format that the
// result parser relies on.
func (pb *PromptBuilder) BuildCVEvaluationPrompt(jobDescription, cvRubric, cvText string) string {
	return fmt.Sprintf(`Based on the following job description and scoring rubric, evaluate the candidate's CV.

Job Description: %s

CV Scoring Rubric: %s

Candidate CV: %s

Provide a match rate (0.0 to 1.0) and feedback.
Format your response as:
Match Rate: [rate]
Feedback: [feedback]`,
		jobDescription, cvRubric, cvText)
}

// BuildProjectEvaluationPrompt creates the project report evaluation
// prompt, answered in the Score/Feedback format.
func (pb *PromptBuilder) BuildProjectEvaluationPrompt(caseStudyBrief, projectRubric, projectText string) string {
	return fmt.Sprintf(`Based on the following case study brief and scoring rubric, evaluate the candidate's project report.

Case Study Brief: %s

Project Scoring Rubric: %s

Candidate Project Report: %s

Provide a score (1.0 to 5.0) and feedback.
Format your response as:
Score: [score]
Feedback: [feedback]`,
		caseStudyBrief, projectRubric, projectText)
}

// BuildSummaryPrompt creates the overall summary prompt. Free text, no
// required format.
func (pb *PromptBuilder) BuildSummaryPrompt(cvEvaluation, projectEvaluation string) string {
	return fmt.Sprintf(`Based on the CV evaluation and project report evaluation, provide a concise overall summary of the candidate.

CV Evaluation: %s

Project Report Evaluation: %s

Provide a 3-5 sentence summary.`,
		cvEvaluation, projectEvaluation)
}
