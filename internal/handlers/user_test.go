package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"backend/internal/models"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestBuildProfileUpdateEmptyRequestOnlyForcesVerified(t *testing.T) {
	update := buildProfileUpdate(ProfileUpdateRequest{})

	if len(update) != 1 {
		t.Fatalf("expected only isVerified in update, got %v", update)
	}
	if verified, ok := update["isVerified"].(bool); !ok || !verified {
		t.Fatalf("expected isVerified=true, got %v", update["isVerified"])
	}
}

func TestBuildProfileUpdateAppliesEmptyString(t *testing.T) {
	update := buildProfileUpdate(ProfileUpdateRequest{PhoneNumber: strPtr("")})

	value, ok := update["phoneNumber"]
	if !ok {
		t.Fatal("expected phoneNumber to be applied when present")
	}
	if value != "" {
		t.Fatalf("expected empty phoneNumber, got %v", value)
	}
}

func TestBuildProfileUpdateMergesPresentAddressFields(t *testing.T) {
	update := buildProfileUpdate(ProfileUpdateRequest{
		City:  strPtr("Lahore"),
		State: strPtr("Punjab"),
	})

	address, ok := update["address"].(bson.M)
	if !ok {
		t.Fatalf("expected address sub-document, got %v", update["address"])
	}
	if address["city"] != "Lahore" || address["state"] != "Punjab" {
		t.Fatalf("unexpected address contents: %v", address)
	}
	if _, ok := address["houseNo"]; ok {
		t.Fatal("absent address field should not appear")
	}
}

func TestBuildProfileUpdateSkipsAddressWhenNoSubFieldPresent(t *testing.T) {
	update := buildProfileUpdate(ProfileUpdateRequest{Name: strPtr("A")})

	if _, ok := update["address"]; ok {
		t.Fatal("address should be absent when no sub-field is supplied")
	}
}

func TestBuildProfileUpdateAppliesExplicitIsDeletedFalse(t *testing.T) {
	update := buildProfileUpdate(ProfileUpdateRequest{IsDeleted: boolPtr(false)})

	value, ok := update["isDeleted"].(bool)
	if !ok {
		t.Fatal("expected isDeleted to be applied when present")
	}
	if value {
		t.Fatal("expected isDeleted=false")
	}
}

func TestBuildProfileUpdateWrapsImagePath(t *testing.T) {
	update := buildProfileUpdate(ProfileUpdateRequest{ImagePath: strPtr("uploads/users/a.png")})

	image, ok := update["image"].(models.Image)
	if !ok {
		t.Fatalf("expected image sub-document, got %T", update["image"])
	}
	if image.Path != "uploads/users/a.png" {
		t.Fatalf("unexpected image path: %s", image.Path)
	}
}

func TestBuildProfileUpdateNormalizesEmail(t *testing.T) {
	update := buildProfileUpdate(ProfileUpdateRequest{Email: strPtr(" New@Mail.COM ")})

	if update["email"] != "new@mail.com" {
		t.Fatalf("expected lowercased trimmed email, got %v", update["email"])
	}
}
