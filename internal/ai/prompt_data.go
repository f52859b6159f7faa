package ai

// Template data for each operation. Custom prompt files are executed
// against the same structs, so field names are part of the configuration
// surface.

type DescribeData struct {
	Readme         string
	JobDescription string
}

type CategorizeData struct {
	Readme     string
	JobContext string
	Categories []string
}

type ResumeProject struct {
	Name        string
	Category    string
	Description string
}

type ResumeData struct {
	Name           string
	Email          string
	Phone          string
	GitHub         string
	LinkedIn       string
	Skills         string
	Education      string
	WorkExperience string
	JobDescription string
	Projects       []ResumeProject
}

type CoverLetterData struct {
	Company        string
	CompanyInfo    string
	JobDescription string
	Projects       string
	CandidateName  string
}
