package storage

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
)

func TestS3Storage_ObjectURL(t *testing.T) {
	client := s3.New(s3.Options{Region: "ap-south-1"})

	direct := &S3Storage{client: client, bucket: "mess-reports"}
	assert.Equal(t,
		"https://mess-reports.s3.ap-south-1.amazonaws.com/reports/daily/2026-10-19.xlsx",
		direct.objectURL("reports/daily/2026-10-19.xlsx"))

	cdn := &S3Storage{client: client, bucket: "mess-reports", baseURL: "https://cdn.example.com"}
	assert.Equal(t, "https://cdn.example.com/reports/a.xlsx", cdn.objectURL("reports/a.xlsx"))
}

func TestUniqueKey(t *testing.T) {
	a := UniqueKey("imports", ".xlsx")
	b := UniqueKey("imports", ".xlsx")

	assert.True(t, strings.HasPrefix(a, "imports/"))
	assert.True(t, strings.HasSuffix(a, ".xlsx"))
	assert.NotEqual(t, a, b)
}
