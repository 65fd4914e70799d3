package util

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

// AreEqualJSON reports whether two JSON documents decode to the same value,
// ignoring key order and whitespace.
func AreEqualJSON(s1, s2 string) (bool, error) {
	var o1 interface{}
	var o2 interface{}

	if err := json.Unmarshal([]byte(s1), &o1); err != nil {
		return false, errors.Wrap(err, "parsing first document")
	}
	if err := json.Unmarshal([]byte(s2), &o2); err != nil {
		return false, errors.Wrap(err, "parsing second document")
	}

	return reflect.DeepEqual(o1, o2), nil
}

// AssertJSON fails the test unless actual is the same JSON document as
// expected.
func AssertJSON(t *testing.T, caseIdx int, expected string, actual []byte) {
	t.Helper()
	equal, err := AreEqualJSON(expected, string(actual))
	if err != nil {
		t.Fatalf("case %d: %v", caseIdx, err)
	}
	if !equal {
		t.Fatalf("case %d: expected %s; got %s", caseIdx, expected, actual)
	}
}

// AssertError fails the test if the actual error doesn't match the expected
// one. An empty expected string means success is expected.
// The return value is "error matched", i.e. the case is done.
func AssertError(t *testing.T, caseIdx int, expected string, err error) bool {
	t.Helper()
	if err != nil {
		if expected == "" {
			t.Fatalf(`case %d: expected success; got error "%s"`, caseIdx, err.Error())
			return false
		}
		if err.Error() != expected {
			t.Fatalf(`case %d: expected error "%s"; got "%s"`, caseIdx, expected, err.Error())
			return false
		}
		return true
	}
	if expected != "" {
		t.Fatalf(`case %d: expected error "%s"; got success`, caseIdx, expected)
		return false
	}
	return false
}
