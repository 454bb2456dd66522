package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/rtn/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "empty", code: "  \n", want: langdetect.Unknown},
		{name: "shebang sh", code: "#!/bin/sh\necho hello", want: "sh"},
		{name: "shebang python", code: "#!/usr/bin/env python3\nprint('hello')", want: "python"},
		{name: "go package", code: "package main\n\nfunc main() {}", want: "go"},
		{name: "dockerfile", code: "FROM alpine:3\nRUN apk add git", want: "dockerfile"},
		{name: "html", code: "<!DOCTYPE html>\n<html></html>", want: "html"},
		{name: "json", code: `{"key": "value", "n": 1}`, want: "json"},
		{name: "sql", code: "select id from notes where parent = 0", want: "sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.Detect([]byte(tt.code)))
		})
	}
}

func TestFromInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info string
		want string
	}{
		{info: "", want: ""},
		{info: "go", want: "go"},
		{info: "golang", want: "go"},
		{info: "bash title=setup.sh", want: "sh"},
		{info: "{.python}", want: "python"},
		{info: "mermaid", want: "mermaid"},
	}

	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.FromInfo(tt.info))
		})
	}
}
