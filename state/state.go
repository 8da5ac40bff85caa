// Package state parses the opaque state parameter threaded through the
// provider redirect. The parser is a per-key allow-list filter, not a general
// deserializer: recognized keys are validated strictly, everything else is
// silently dropped.
package state

import (
	"encoding/json"
	"regexp"
	"slices"

	errs "github.com/jrsteele09/go-webflow-bridge/internal/errors"
)

// OrgType selects which provider host the flow targets.
type OrgType string

const (
	OrgPrimary OrgType = "primary"
	OrgSandbox OrgType = "sandbox"
)

// ValidOrgTypes lists the accepted values for the state "type" key.
var ValidOrgTypes = []OrgType{OrgPrimary, OrgSandbox}

// appPattern restricts the App namespace to word characters. A production
// deployment should hard code its own namespace instead of trusting this.
var appPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Value is the validated form of the state parameter.
type Value struct {
	Type OrgType
	App  string
}

// Parse validates the raw state parameter. The root must be a JSON object
// containing "type"; "type" and "app" are checked against their own rules and
// any other key is discarded without error.
func Parse(raw string) (Value, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Value{}, errs.Wrapf(errs.ErrValidation, "state is not a JSON object")
	}

	rawType, ok := fields["type"]
	if !ok {
		return Value{}, errs.Wrapf(errs.ErrValidation, "state value missing type parameter")
	}

	var typeArg string
	if err := json.Unmarshal(rawType, &typeArg); err != nil {
		return Value{}, errs.Wrapf(errs.ErrValidation, "bad type value")
	}
	orgType := OrgType(typeArg)
	if !slices.Contains(ValidOrgTypes, orgType) {
		return Value{}, errs.Wrapf(errs.ErrValidation, "bad type value")
	}

	value := Value{Type: orgType}

	if rawApp, ok := fields["app"]; ok {
		var app string
		if err := json.Unmarshal(rawApp, &app); err != nil || !appPattern.MatchString(app) {
			return Value{}, errs.Wrapf(errs.ErrValidation, "bad app value")
		}
		value.App = app
	}

	return value, nil
}
