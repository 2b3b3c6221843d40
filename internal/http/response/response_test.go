package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		pageSize int
		total    int64
		want     int64
	}{
		{pageSize: 20, total: 0, want: 0},
		{pageSize: 20, total: 20, want: 1},
		{pageSize: 20, total: 21, want: 2},
		{pageSize: 0, total: 5, want: 0},
	}
	for _, tc := range cases {
		if got := NewPagination(1, tc.pageSize, tc.total).TotalPage; got != tc.want {
			t.Fatalf("page_size=%d total=%d want %d got %d", tc.pageSize, tc.total, tc.want, got)
		}
	}
}

func TestErrorWithDataAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	ErrorWithData(c, CodeUnprocessable, "validation failed", gin.H{"field": "payment_status"})

	var resp struct {
		StatusCode int               `json:"status_code"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if w.Code != 200 || resp.StatusCode != CodeUnprocessable {
		t.Fatalf("unexpected status: http=%d code=%d", w.Code, resp.StatusCode)
	}
	if resp.Data["field"] != "payment_status" || resp.Data["request_id"] != "req-1" {
		t.Fatalf("unexpected data: %v", resp.Data)
	}
}

func TestAppErrorLogFields(t *testing.T) {
	cause := errors.New("db down")
	appErr := WrapError(CodeInternal, "internal error", cause)
	if !errors.Is(appErr, cause) || !appErr.Internal() {
		t.Fatalf("expected internal error wrapping cause")
	}
	if fields := appErr.LogFields(); len(fields) != 6 {
		t.Fatalf("unexpected log fields: %v", fields)
	}
	if WrapError(CodeNotFound, "missing", nil).Internal() {
		t.Fatalf("404 should not be internal")
	}
}
