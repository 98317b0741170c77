package recommendation

import "encoding/json"

// rawJSON lets a doc string be posted verbatim, including malformed values
// that a typed body could not express.
type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) {
	if !json.Valid([]byte(r)) {
		return json.Marshal(string(r))
	}
	return []byte(r), nil
}
