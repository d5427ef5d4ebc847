package output

// GenerateOutput is the JSON form of a generation run.
type GenerateOutput struct {
	Description string   `json:"description"`
	Example     string   `json:"example,omitempty"`
	Mode        string   `json:"mode"`
	Layout      string   `json:"layout"`
	Makefile    string   `json:"makefile"`
	Ini         string   `json:"ini"`
	Written     bool     `json:"written"`
	Xclbins     []string `json:"xclbins"`
	Conflicts   []string `json:"conflicts,omitempty"`
	// Content holds the rendered Makefile for dry runs.
	Content string `json:"content,omitempty"`
}

// PlanBin is one xclbin of a plan.
type PlanBin struct {
	Name      string   `json:"name"`
	Target    string   `json:"target"`
	Bucket    string   `json:"bucket"`
	Kernels   []string `json:"kernels"`
	Objects   []string `json:"objects"`
	Sources   []string `json:"sources"`
	LinkFlags string   `json:"link_flags,omitempty"`
}

// PlanOutput is the JSON form of a resolved plan.
type PlanOutput struct {
	Description  string     `json:"description"`
	Mode         string     `json:"mode"`
	Layout       string     `json:"layout"`
	PerContainer bool       `json:"per_container"`
	Bins         []PlanBin  `json:"bins"`
	Levels       [][]string `json:"levels"`
	Targets      int        `json:"targets"`
	Edges        int        `json:"edges"`
	Conflicts    []string   `json:"conflicts,omitempty"`
}

// IssueInfo is one validation problem.
type IssueInfo struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ValidateOutput is the JSON form of a validation run.
type ValidateOutput struct {
	Description string      `json:"description"`
	Valid       bool        `json:"valid"`
	Mode        string      `json:"mode,omitempty"`
	Issues      []IssueInfo `json:"issues,omitempty"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// LibraryInfo describes a registered library.
type LibraryInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Fragment    string `json:"fragment"`
	CXXFlags    string `json:"cxxflags_var"`
	LDFlags     string `json:"ldflags_var"`
	Sources     string `json:"srcs_var"`
}

// BatchEntry is the outcome for one description of a batch.
type BatchEntry struct {
	Description string `json:"description"`
	Makefile    string `json:"makefile,omitempty"`
	Status      string `json:"status"`
}

// BatchOutput is the JSON form of a batch run.
type BatchOutput struct {
	Root      string       `json:"root"`
	Generated int          `json:"generated"`
	Failed    int          `json:"failed"`
	Entries   []BatchEntry `json:"entries"`
	Errors    []string     `json:"errors,omitempty"`
}
