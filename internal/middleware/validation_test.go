package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Test struct with validation tags
type TestRequest struct {
	Name    string `json:"name" validate:"required"`
	OwnerID string `json:"ownerId" validate:"required,mongodb"`
}

func TestProperty_GeneratedIDsPassValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every generated identifier is accepted", prop.ForAll(
		func(_ int) bool {
			return ValidateID(primitive.NewObjectID().Hex()) == nil
		},
		gen.Int(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_MalformedIDsFailValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("anything but 24 lowercase hex characters is rejected", prop.ForAll(
		func(id string) bool {
			err := ValidateID(id)
			if err == nil {
				return false
			}

			validationErrors := FormatValidationErrors(err)
			return len(validationErrors) == 1 && validationErrors[0].Field == "id"
		},
		gen.OneGenOf(
			gen.RegexMatch(`[0-9a-f]{0,23}`),
			gen.RegexMatch(`[0-9a-f]{25,30}`),
			gen.RegexMatch(`[0-9a-f]{10}[g-z]{1,4}[0-9a-f]{10}`),
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestValidateID_ErrorMessages(t *testing.T) {
	cases := map[string]string{
		"":                         "This field is required",
		"not-an-id":                "Must be a 24 character hexadecimal identifier",
		"abc123abc123":             "Must be a 24 character hexadecimal identifier",
		"ABCDEF0123456789ABCDEF01": "Must be a 24 character hexadecimal identifier",
	}

	for id, want := range cases {
		validationErrors := FormatValidationErrors(ValidateID(id))
		if len(validationErrors) != 1 || validationErrors[0].Message != want {
			t.Errorf("ValidateID(%q) = %+v, want message %q", id, validationErrors, want)
		}
	}
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includeOwner bool) bool {
			reqMap := make(map[string]interface{})
			if includeName {
				reqMap["name"] = "Red Car"
			}
			if includeOwner {
				reqMap["ownerId"] = primitive.NewObjectID().Hex()
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq TestRequest
			err := DecodeAndValidate(req, &testReq)

			if includeName && includeOwner {
				return err == nil
			}
			return err != nil && len(FormatValidationErrors(err)) > 0
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidate_RejectsBrokenJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"name":`))

	var testReq TestRequest
	err := DecodeAndValidate(req, &testReq)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if got := FormatValidationErrors(err); len(got) != 0 {
		t.Errorf("decode errors are not validation errors, got %+v", got)
	}
}

func TestDecodeJSON_NilBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", nil)
	req.Body = nil

	var v map[string]interface{}
	if err := DecodeJSON(req, &v); err == nil {
		t.Fatal("expected an error for a missing body")
	}
}
