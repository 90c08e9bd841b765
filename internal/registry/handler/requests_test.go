package handler

import (
	"strings"
	"testing"

	dErrors "didregistry/pkg/domain-errors"
)

func TestCreateIdentityRequestPrepare(t *testing.T) {
	cases := []struct {
		name     string
		did      string
		wantCode dErrors.Code
	}{
		{name: "valid", did: "did:example:alice"},
		{name: "boundary length", did: strings.Repeat("x", 100)},
		{name: "empty", did: "", wantCode: dErrors.CodeInvalidDID},
		{name: "too long", did: strings.Repeat("x", 101), wantCode: dErrors.CodeInvalidDID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &CreateIdentityRequest{DID: tc.did}
			err := req.Prepare()
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !dErrors.HasCode(err, tc.wantCode) {
				t.Fatalf("expected code %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestAddClaimRequestPrepare(t *testing.T) {
	cases := []struct {
		name     string
		claim    string
		wantCode dErrors.Code
	}{
		{name: "valid", claim: "over-18"},
		{name: "boundary length", claim: strings.Repeat("c", 200)},
		{name: "whitespace is preserved, not rejected", claim: "  padded  "},
		{name: "empty", claim: "", wantCode: dErrors.CodeInvalidClaim},
		{name: "too long", claim: strings.Repeat("c", 201), wantCode: dErrors.CodeInvalidClaim},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &AddClaimRequest{Claim: tc.claim}
			err := req.Prepare()
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !dErrors.HasCode(err, tc.wantCode) {
				t.Fatalf("expected code %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestSetVerificationStatusRequestPrepare(t *testing.T) {
	t.Run("missing verified field", func(t *testing.T) {
		req := &SetVerificationStatusRequest{}
		if err := req.Prepare(); !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			t.Fatalf("expected invalid_input, got %v", err)
		}
	})

	t.Run("explicit false is valid", func(t *testing.T) {
		verified := false
		req := &SetVerificationStatusRequest{Verified: &verified}
		if err := req.Prepare(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
