package types

// PersonalDetails holds the candidate's identity block from the resume record.
type PersonalDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// WorkExperience is a single employment entry.
type WorkExperience struct {
	JobTitle    string  `json:"jobTitle"`
	Employer    string  `json:"employer"`
	StartDate   string  `json:"startDate,omitempty"`
	EndDate     string  `json:"endDate,omitempty"`
	Description string  `json:"description,omitempty"`
	Years       float64 `json:"years,omitempty"`
}

// Education is a single education entry.
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
}

// Skills wraps the free-form skills string stored by the data layer.
// The data layer stores a comma/newline separated blob; scoring splits
// and normalizes it before use.
type Skills struct {
	SkillList string `json:"skills_"`
}

// Project is a single project entry.
type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Technologies string `json:"technologies,omitempty"`
	Link         string `json:"link,omitempty"`
}

// Resume is the read-only candidate record supplied by the persistence
// layer. Every optional field has a usable zero value; scoring must not
// assume any section is present.
type Resume struct {
	ID              string           `json:"id,omitempty"`
	PersonalDetails PersonalDetails  `json:"personalDetails"`
	WorkExperience  []WorkExperience `json:"workExperience,omitempty"`
	Education       []Education      `json:"education,omitempty"`
	Skills          Skills           `json:"skills"`
	Projects        []Project        `json:"projects,omitempty"`
}

// CoverLetter carries the job posting the resume is scored against.
type CoverLetter struct {
	ID             string `json:"id,omitempty"`
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company,omitempty"`
	JobDescription string `json:"jobdescription"`
}

// ComponentScores holds the per-section match scores, each in [0,1].
type ComponentScores struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Projects   float64 `json:"projects"`
	JobTitle   float64 `json:"jobTitle"`
	Education  float64 `json:"education"`
}

// PenaltyResult reports one mismatch detector's outcome.
type PenaltyResult struct {
	HasSevereMismatch bool              `json:"hasSevereMismatch"`
	Penalty           float64           `json:"penalty"`
	Analysis          map[string]string `json:"analysis,omitempty"`
}

// JobClassification is the auxiliary job-category guess attached to a
// scoring result. Classification failure never blocks scoring.
type JobClassification struct {
	Category        string   `json:"category"`
	Confidence      float64  `json:"confidence"`
	SuggestedSkills []string `json:"suggestedSkills,omitempty"`
}

// ScoreBreakdown is the full scoring context handed to the explanation
// collaborator and exposed on the result for callers that want detail.
// All values are on the 0-10 scale.
type ScoreBreakdown struct {
	EmbeddingSimilarity float64 `json:"embeddingSimilarity"`
	ComponentScore      float64 `json:"componentScore"`
	SkillsScore         float64 `json:"skillsScore"`
	ExperienceScore     float64 `json:"experienceScore"`
	ProjectsScore       float64 `json:"projectsScore"`
	JobTitleScore       float64 `json:"jobTitleScore"`
	EducationScore      float64 `json:"educationScore"`
	TechnicalPenalty    float64 `json:"technicalPenalty"`
	ExperiencePenalty   float64 `json:"experiencePenalty"`
	TechnicalMismatch   string  `json:"technicalMismatch,omitempty"`
	ExperienceMismatch  string  `json:"experienceMismatch,omitempty"`
}

// JobFitResult is the final output of a scoring request. Score is nil
// only for total failure; the explanation then names the failure
// category in plain language. Results are computed per request and
// never persisted.
type JobFitResult struct {
	Score             *float64           `json:"score"`
	Explanation       string             `json:"explanation"`
	JobClassification *JobClassification `json:"jobClassification,omitempty"`
	Breakdown         *ScoreBreakdown    `json:"breakdown,omitempty"`
}

// ExplainFitInput is the request for the explanation text.
type ExplainFitInput struct {
	JobTitle  string         `json:"jobTitle"`
	Company   string         `json:"company"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Score     float64        `json:"score"`
}

// ExplainFitOutput is the structured explanation response.
type ExplainFitOutput struct {
	Explanation string `json:"explanation"`
}

// CoverLetterInput is the request for generated cover-letter text.
type CoverLetterInput struct {
	SubjectID      string `json:"subjectId"`
	CandidateName  string `json:"candidateName"`
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company,omitempty"`
	JobDescription string `json:"jobDescription"`
	ResumeSummary  string `json:"resumeSummary,omitempty"`
}

// CoverLetterOutput is the structured cover-letter response.
type CoverLetterOutput struct {
	CoverLetter string `json:"coverLetter"`
}
