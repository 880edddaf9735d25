// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/json"
	"testing"
)

func TestSignupWithKeyRequestStructure(t *testing.T) {
	// Nickname is optional and must stay distinguishable from empty.
	jsonPayload := `{
		"email": "user@example.com",
		"password": "MySecretPassword@123",
		"key_code": "XY-1D-A2B3C4D5",
		"nickname": "Sunny"
	}`

	var req SignupWithKeyRequest
	err := json.Unmarshal([]byte(jsonPayload), &req)
	if err != nil {
		t.Fatalf("Failed to unmarshal SignupWithKeyRequest: %v", err)
	}

	if req.Email != "user@example.com" {
		t.Errorf("Expected email 'user@example.com', got %s", req.Email)
	}
	if req.KeyCode != "XY-1D-A2B3C4D5" {
		t.Errorf("Expected key_code 'XY-1D-A2B3C4D5', got %s", req.KeyCode)
	}
	if req.Nickname == nil || *req.Nickname != "Sunny" {
		t.Errorf("Expected nickname 'Sunny', got %v", req.Nickname)
	}
}

func TestSignupWithKeyRequestWithoutNickname(t *testing.T) {
	jsonPayload := `{
		"email": "user@example.com",
		"password": "MySecretPassword@123",
		"key_code": "XY-1D-A2B3C4D5"
	}`

	var req SignupWithKeyRequest
	err := json.Unmarshal([]byte(jsonPayload), &req)
	if err != nil {
		t.Fatalf("Failed to unmarshal SignupWithKeyRequest: %v", err)
	}

	if req.Nickname != nil {
		t.Errorf("Expected nickname to be nil, got %v", req.Nickname)
	}
}

func TestGenerateKeysRequestStructure(t *testing.T) {
	jsonPayload := `{
		"prefix": "LOVE",
		"duration_days": 0.5,
		"usage_cap": 1,
		"count": 10,
		"expiry_days": 90
	}`

	var req GenerateKeysRequest
	err := json.Unmarshal([]byte(jsonPayload), &req)
	if err != nil {
		t.Fatalf("Failed to unmarshal GenerateKeysRequest: %v", err)
	}

	if req.Prefix != "LOVE" {
		t.Errorf("Expected prefix 'LOVE', got %s", req.Prefix)
	}
	if req.DurationDays != 0.5 {
		t.Errorf("Expected duration_days 0.5, got %v", req.DurationDays)
	}
	if req.UsageCap == nil || *req.UsageCap != 1 {
		t.Errorf("Expected usage_cap 1, got %v", req.UsageCap)
	}
	if req.ExpiryDays == nil || *req.ExpiryDays != 90 {
		t.Errorf("Expected expiry_days 90, got %v", req.ExpiryDays)
	}
}

func TestGenerateKeysRequestUnlimited(t *testing.T) {
	// Omitted usage_cap and expiry_days mean unlimited uses and no expiry.
	jsonPayload := `{
		"prefix": "XY",
		"duration_days": 7
	}`

	var req GenerateKeysRequest
	err := json.Unmarshal([]byte(jsonPayload), &req)
	if err != nil {
		t.Fatalf("Failed to unmarshal GenerateKeysRequest: %v", err)
	}

	if req.UsageCap != nil {
		t.Errorf("Expected usage_cap to be nil, got %v", req.UsageCap)
	}
	if req.ExpiryDays != nil {
		t.Errorf("Expected expiry_days to be nil, got %v", req.ExpiryDays)
	}
	if req.Count != 0 {
		t.Errorf("Expected count to default to zero before handler fill-in, got %d", req.Count)
	}
}

func TestBatchKeysRequestStructure(t *testing.T) {
	jsonPayload := `{
		"action": "disable",
		"key_ids": [1, 2, 3],
		"note": "Campaign ended"
	}`

	var req BatchKeysRequest
	err := json.Unmarshal([]byte(jsonPayload), &req)
	if err != nil {
		t.Fatalf("Failed to unmarshal BatchKeysRequest: %v", err)
	}

	if req.Action != "disable" {
		t.Errorf("Expected action 'disable', got %s", req.Action)
	}
	if len(req.KeyIDs) != 3 || req.KeyIDs[0] != 1 || req.KeyIDs[2] != 3 {
		t.Errorf("Expected key_ids [1 2 3], got %v", req.KeyIDs)
	}
	if req.Note == nil || *req.Note != "Campaign ended" {
		t.Errorf("Expected note 'Campaign ended', got %v", req.Note)
	}
}
