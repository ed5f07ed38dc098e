package exam

import "fmt"

const promptTemplate = `Generate a comprehensive exam with %[1]d questions for a grade/class %[2]d student.

Requirements:
- Subject/Topic: %[3]s
- Difficulty: %[4]s, and it must reflect the chosen class/grade level (%[2]d)
- Each question must be on its own line and numbered (1., 2., etc.)
- Questions should be age-appropriate and relevant to the core curriculum of the class
- Include a mix of question types:
  - Short Answer Questions (brief explanations, definitions, or calculations)
  - Long Answer / Essay Questions (detailed reasoning, problem-solving, derivations)
- Avoid diagrammatic questions
- Questions should progressively increase in difficulty for higher grades
- Keep wording clear and understandable
- Do NOT include the answers in the response
- Specify the question type (short answer, long answer) inside brackets at the end of each question

Example question types for reference:

Short Answer:
1. What are the two inherent characteristics of amoeba and yeast that favour asexual reproduction in them? (short answer)

Long Answer / Problem-Solving:
2. Explain the process of cellular respiration and its significance in energy production. (long answer)

Now generate %[1]d questions for grade/class %[2]d on the subject/topic of %[3]s at %[4]s difficulty, ensuring the questions are aligned with the grade level, focus on core topics, and include a mix of short and long answer questions.`

// BuildPrompt renders the instruction sent to the generative service.
func BuildPrompt(req ExamRequest) string {
	return fmt.Sprintf(promptTemplate, req.QuestionCount, req.GradeLevel, req.Topic, req.Difficulty)
}
