package types

// CompareInput represents the input for a two-resume comparison
type CompareInput struct {
	JobDescription string `json:"jobDescription"`
	Resume1        string `json:"resume1"`
	Resume2        string `json:"resume2"`
}

// ResumeMatch holds the per-resume scoring detail
type ResumeMatch struct {
	KeywordScore  float64  `json:"keywordScore"`  // |matched| / |jdSkills|, rounded to 2 decimals
	MatchedSkills []string `json:"matchedSkills"` // vocabulary order
	MissingSkills []string `json:"missingSkills"` // vocabulary order
	Similarity    float64  `json:"similarity"`    // cosine similarity against the job description
	IsMatch       bool     `json:"isMatch"`       // similarity > threshold
}

// Comparison winner values. Draw means neither resume scored strictly higher.
const (
	WinnerDraw    = 0
	WinnerResume1 = 1
	WinnerResume2 = 2
)

// ComparisonResult is the immutable output of one comparison request.
// Callers own the value; the engine keeps no copy.
type ComparisonResult struct {
	JobSkills       []string    `json:"jobSkills"` // vocabulary subset found in the JD
	Resume1         ResumeMatch `json:"resume1"`
	Resume2         ResumeMatch `json:"resume2"`
	Winner          int         `json:"winner"` // 0 = draw, 1 or 2 otherwise
	Summary         string      `json:"summary"`
	Recommendations []string    `json:"recommendations"`
	Threshold       float64     `json:"threshold"`
}

// LabeledSample is one row of the evaluation dataset
type LabeledSample struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
	Label          int    `json:"label"` // 0 or 1
}

// EvaluationMetrics holds binary-classification metrics for one evaluation run
type EvaluationMetrics struct {
	Samples   int     `json:"samples"`
	Threshold float64 `json:"threshold"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// BuildDatasetOutput summarizes a dataset build run
type BuildDatasetOutput struct {
	Pairs       int    `json:"pairs"`
	ResumesUsed int    `json:"resumesUsed"`
	JDsUsed     int    `json:"jdsUsed"`
	OutputFile  string `json:"outputFile"`
}
