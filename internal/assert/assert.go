package assert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mohamadnahleh/set-calculator/bst"
	"github.com/mohamadnahleh/set-calculator/setstore"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// Enumerates checks that set yields exactly want, in order.
func (a *Assert) Enumerates(set *bst.Set, want ...int) bool {
	a.T.Helper()
	if want == nil {
		want = []int{}
	}
	return a.Equal(want, set.Values())
}

// Sets checks the ascending contents of X, Y and Z.
func (a *Assert) Sets(s *setstore.Store, x, y, z []int) {
	a.T.Helper()
	a.Enumerates(s.Get(setstore.X), x...)
	a.Enumerates(s.Get(setstore.Y), y...)
	a.Enumerates(s.Get(setstore.Z), z...)
}

// EqualToJSONFixture marshals the result to JSON and compares it with the content of a fixture file.
// If GEN_FIXTURE=true is set, it writes the marshaled result to the fixture file and passes the test.
// The fixture path is derived from the test name: fixtures/<a.T.Name()>_<fixtureName>.json
func (a *Assert) EqualToJSONFixture(fixtureName string, result any) {
	a.T.Helper()
	resultJSON, err := json.MarshalIndent(result, "", "  ")
	a.NoError(err, "Failed to marshal result to JSON")

	resultStr := string(resultJSON)
	fixturePath := filepath.Join("fixtures", fmt.Sprintf("%s_%s.json", a.T.Name(), fixtureName))

	if os.Getenv("GEN_FIXTURE") == "true" {
		err := os.MkdirAll(filepath.Dir(fixturePath), 0755)
		a.NoError(err, "Failed to create fixture directory")
		err = os.WriteFile(fixturePath, []byte(resultStr), 0644)
		a.NoError(err, "Failed to write fixture file")
		return
	}

	expected, err := os.ReadFile(fixturePath)
	a.NoError(err, "Failed to read fixture file")

	a.Equal(string(expected), resultStr, "Result does not match fixture")
}
