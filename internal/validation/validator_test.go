// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/resonance/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type testInput struct {
	UserID   string   `json:"user_id" validate:"required,notblank,max=16"`
	Event    string   `json:"event_type" validate:"required,event_type"`
	Kind     string   `json:"kind" validate:"omitempty,rec_kind"`
	Limit    int      `json:"limit" validate:"min=1,max=100"`
	Hashtags []string `json:"hashtags" validate:"max=3,dive,hashtag"`
}

func validInput() testInput {
	return testInput{UserID: "u1", Event: "like", Kind: "users", Limit: 10, Hashtags: []string{"#music", "art"}}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*testInput)
		wantField string
		wantTag   string
	}{
		{"valid", func(*testInput) {}, "", ""},
		{"uppercase event", func(in *testInput) { in.Event = "SHARE" }, "", ""},
		{"missing user", func(in *testInput) { in.UserID = "" }, "user_id", "required"},
		{"blank user", func(in *testInput) { in.UserID = "   " }, "user_id", "notblank"},
		{"long user", func(in *testInput) { in.UserID = strings.Repeat("x", 17) }, "user_id", "max"},
		{"unknown event", func(in *testInput) { in.Event = "bookmark" }, "event_type", "event_type"},
		{"unknown kind", func(in *testInput) { in.Kind = "groups" }, "kind", "rec_kind"},
		{"zero limit", func(in *testInput) { in.Limit = 0 }, "limit", "min"},
		{"limit too large", func(in *testInput) { in.Limit = 101 }, "limit", "max"},
		{"bad hashtag", func(in *testInput) { in.Hashtags = []string{"two words"} }, "hashtags[0]", "hashtag"},
		{"too many hashtags", func(in *testInput) { in.Hashtags = []string{"a", "b", "c", "d"} }, "hashtags", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)

			verr := ValidateStruct(&in)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestRequestValidationError_Conversions(t *testing.T) {
	in := validInput()
	in.UserID = ""
	in.Limit = 0

	verr := ValidateStruct(&in)
	if verr == nil {
		t.Fatal("expected validation error")
	}

	var err error = verr
	if !errors.Is(err, models.ErrValidation) {
		t.Error("RequestValidationError should match models.ErrValidation")
	}
	if err := Struct(&in); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Struct() error = %v, want ErrValidation", err)
	}
	if err := Struct(ptr(validInput())); err != nil {
		t.Errorf("Struct(valid) error = %v", err)
	}

	me := verr.ModelError()
	if me.Field != "user_id" || me.Message != "user_id is required" {
		t.Errorf("ModelError() = %+v", me)
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "limit must be at least 1") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-field error should list fields")
	}
}

func ptr[T any](v T) *T { return &v }

func TestTranslateMessages(t *testing.T) {
	in := validInput()
	in.UserID = strings.Repeat("x", 20)
	in.Hashtags = []string{"a", "b", "c", "d"}

	verr := ValidateStruct(&in)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	msg := verr.Error()
	for _, want := range []string{"user_id must be at most 16 characters", "hashtags must be at most 3 items"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}
