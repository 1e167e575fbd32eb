package llm

import "context"

// Mock is a canned-response client for tests and offline dry runs. It records
// the last request it saw so callers can assert on the payload.
type Mock struct {
	Response string
	Err      error

	LastRequest Request
	LastSystem  string
	LastUser    string
	LastParams  Params
	Calls       int
}

func (m *Mock) Complete(_ context.Context, req Request) (string, error) {
	m.Calls++
	m.LastRequest = req
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *Mock) Chat(_ context.Context, system, user string, p Params) (string, error) {
	m.Calls++
	m.LastSystem = system
	m.LastUser = user
	m.LastParams = p
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
