package ident

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainCase separates case IDs from any other digest the harness might
// compute. The version suffix allows the algorithm to change later.
const DomainCase = "cmmcheck/case/v1"

// CaseSpec is the part of a test case that defines its identity.
type CaseSpec struct {
	Name   string
	Source string
	Input  string
	Expect []byte
}

// hashWithDomain computes SHA256(domain || 0x00 || data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CaseID returns the content-addressed ID of a case definition.
//
// The expected output enters the digest as its own SHA-256 so that
// arbitrary bytes, including invalid UTF-8, keep their exact identity.
func CaseID(spec CaseSpec) (string, error) {
	sum := sha256.Sum256(spec.Expect)
	obj := map[string]string{
		"name":          spec.Name,
		"source":        spec.Source,
		"input":         spec.Input,
		"expect_sha256": hex.EncodeToString(sum[:]),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CaseID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCase, canonical), nil
}
