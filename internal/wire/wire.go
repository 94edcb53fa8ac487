// Package wire defines the JSON command and event shapes exchanged
// with an external controller (a GUI, TUI, or CLI front end):
// lower_snake_case fields, omitempty on anything optional.
package wire

// ScanNew starts a brand new scan session: enumerate pages, capture
// an initial snapshot, discard any prior results.
type ScanNew struct {
	Action      string `json:"action"` // "scan_new"
	Pid         int    `json:"pid"`
	WritableOnly bool  `json:"writable_only,omitempty"`
}

// ElementScan narrows (or performs the first pass of) a scan against
// one data type and comparison.
type ElementScan struct {
	Action    string      `json:"action"` // "element_scan"
	DataType  string      `json:"data_type"`
	Compare   string      `json:"compare"` // "eq","neq","gt","lt","gte","lte","changed","unchanged","increased","decreased","increased_by","decreased_by","multiplied_by","divided_by","modulo_by","shifted_left_by","shifted_right_by","anded_with","ored_with","xored_with"
	Value     interface{} `json:"value,omitempty"`
	Delta     interface{} `json:"delta,omitempty"`
	Alignment uint64      `json:"alignment,omitempty"`
}

// ScanResultsList requests one page of surviving results.
type ScanResultsList struct {
	Action    string `json:"action"` // "scan_results_list"
	DataType  string `json:"data_type"`
	PageIndex int    `json:"page_index"`
	PageSize  int    `json:"page_size"`
}

// ScanResultsRefresh names a request to re-read memory for every
// surviving result address without narrowing the result set. The
// daemon does not dispatch this action and answers it as unknown.
type ScanResultsRefresh struct {
	Action   string `json:"action"` // "scan_results_refresh"
	DataType string `json:"data_type"`
}

// ResultsUpdated carries one page of results; the daemon returns it as
// the reply to scan_results_list.
type ResultsUpdated struct {
	Event   string        `json:"event"` // "results_updated"
	Results []ResultEntry `json:"results"`
}

// ResultEntry is one scan hit's address and value bytes. The daemon's
// scan_results_list reply fills in Address only.
type ResultEntry struct {
	Address uint64 `json:"address"`
	Value   []byte `json:"value"`
}

// TaskProgress describes a scan's progress ratio. The daemon does not
// send it; element_scan replies once, after the task has finished.
type TaskProgress struct {
	Event           string  `json:"event"` // "task_progress"
	TaskID          string  `json:"task_id"`
	Ratio           float64 `json:"ratio"`
	RegionsComplete int     `json:"regions_complete"`
	RegionsTotal    int     `json:"regions_total"`
}

// TaskCompleted is pushed once a scan task finishes, successfully or not.
type TaskCompleted struct {
	Event      string `json:"event"` // "task_completed"
	TaskID     string `json:"task_id"`
	ResultCount int64 `json:"result_count"`
	Error      string `json:"error,omitempty"`
}

// Envelope is the generic request wrapper the daemon reads the
// "action" field from before dispatching to a concrete type: peek at
// one field, then fully unmarshal into the right struct.
type Envelope struct {
	Action string `json:"action"`
}
