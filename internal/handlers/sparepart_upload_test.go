package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseMultipartSparePartRequest_PresenceAndZeroValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("name", "Brake pad")
	_ = writer.WriteField("quantity", "0")
	_ = writer.WriteField("isDeleted", "false")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/spareparts", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	parsed, err := parseMultipartSparePartRequest(c)
	if err != nil {
		t.Fatalf("parseMultipartSparePartRequest returned error: %v", err)
	}
	if parsed.Name == nil || *parsed.Name != "Brake pad" {
		t.Fatalf("expected name to be set, got %+v", parsed.Name)
	}
	if parsed.Quantity == nil || *parsed.Quantity != 0 {
		t.Fatalf("expected quantity=0 to be present, got %+v", parsed.Quantity)
	}
	if parsed.IsDeleted == nil || *parsed.IsDeleted {
		t.Fatalf("expected isDeleted=false to be present, got %+v", parsed.IsDeleted)
	}
	if parsed.Price != nil {
		t.Fatalf("expected absent price to stay nil, got %v", *parsed.Price)
	}
	if len(parsed.ImagePaths) != 0 {
		t.Fatalf("expected no image paths, got %v", parsed.ImagePaths)
	}
}

func TestParseMultipartSparePartRequest_RejectsBadNumber(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	_ = writer.WriteField("quantity", "plenty")
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/spareparts", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	if _, err := parseMultipartSparePartRequest(c); err == nil {
		t.Fatal("expected error for non-numeric quantity")
	}
}
