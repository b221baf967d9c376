package peoplesync

import "encoding/json"

type CursorEntry struct {
	UpdatedSince string `json:"updated_since"`
	Cursor       string `json:"cursor"`
}

// CursorState tracks the incremental sync position per endpoint. Only the
// people endpoint exists today; the struct leaves room for more.
type CursorState struct {
	People CursorEntry `json:"people"`
}

func DecodeCursorState(raw []byte) CursorState {
	if len(raw) == 0 {
		return CursorState{}
	}
	var state CursorState
	if err := json.Unmarshal(raw, &state); err != nil {
		return CursorState{}
	}
	return state
}

func EncodeCursorState(state CursorState) []byte {
	b, _ := json.Marshal(state)
	return b
}

// hrisPerson is the directory record shape returned by the HRIS people
// endpoint. Employment type values are normalized by the worker.
type hrisPerson struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Title          string `json:"title"`
	EmploymentType string `json:"employment_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	UpdatedAt      string `json:"updated_at"`
}
