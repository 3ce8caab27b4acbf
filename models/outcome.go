package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// NetworkError is the status recorded when no HTTP response was received.
const NetworkError = "NETWORK_ERROR"

// Status is either an HTTP status code or a sentinel string such as NETWORK_ERROR.
// It marshals to a JSON number or a JSON string accordingly.
type Status struct {
	Code     int
	Sentinel string
}

func HTTPStatus(code int) Status {
	return Status{Code: code}
}

func NetworkErrorStatus() Status {
	return Status{Sentinel: NetworkError}
}

func (s Status) IsNetworkError() bool {
	return s.Sentinel == NetworkError
}

func (s Status) String() string {
	if s.Sentinel != "" {
		return s.Sentinel
	}
	return strconv.Itoa(s.Code)
}

func (s Status) MarshalJSON() ([]byte, error) {
	if s.Sentinel != "" {
		return json.Marshal(s.Sentinel)
	}
	return json.Marshal(s.Code)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var sentinel string
		if err := json.Unmarshal(data, &sentinel); err != nil {
			return err
		}
		*s = Status{Sentinel: sentinel}
		return nil
	}
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("status must be a number or string: %w", err)
	}
	*s = Status{Code: code}
	return nil
}

// ApiOutcome is the normalized result of one remote call.
// Data is set only when Success is true, Error only when it is false.
type ApiOutcome struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
	Query   string `json:"query"`
}
