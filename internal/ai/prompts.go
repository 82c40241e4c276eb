package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	ExplainFit  string
	CoverLetter string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	ExplainFit  string
	CoverLetter string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	ExplainFit: `You are a supportive career coach who explains job-fit scores to candidates. Your core principles are:

- Be honest about gaps but never discouraging
- Ground every statement in the scoring breakdown you are given
- Never invent skills, requirements, or numbers that are not in the data
- Speak directly to the candidate in the second person

Your explanations help candidates understand why they received a score and what
would improve it most.`,

	CoverLetter: `You are an expert cover-letter writer with a strict commitment to honesty. Your core principles are:

- NEVER invent skills, experiences, or achievements
- Every claim must be traceable to the candidate information provided
- Write in a confident, professional, and warm tone
- Keep the letter concise and specific to the role`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	ExplainFit: `Please write a short explanation of the job-fit score below for the candidate.

**Requirements:**

1. 3 to 7 sentences, friendly and constructive in tone.
2. Name the strongest components and the weakest components of the match.
3. If a penalty was applied, mention the underlying gap in plain language.
4. End with the single most impactful improvement the candidate could make.
5. Do not mention internal weights, formulas, or component names verbatim; describe what they mean.

**Job Title:** %s
**Company:** %s
**Final Score (0-10):** %.1f

**Scoring Breakdown (JSON):**
-----
%s
-----`,

	CoverLetter: `Please write a cover letter for the candidate below.

**Requirements:**

1. Three to four paragraphs, ready to send.
2. Open by naming the role and company.
3. Connect the candidate's background to the job description using only the information provided.
4. Close with a polite call to action.
5. Do not include placeholder text like [Your Name]; use the candidate's name where a signature belongs.

**Candidate Name:** %s
**Job Title:** %s
**Company:** %s

**Job Description:**
-----
%s
-----

**Candidate Background:**
-----
%s
-----`,
}
