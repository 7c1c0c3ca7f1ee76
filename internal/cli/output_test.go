package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestOutput_Result(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{jsonMode: false, w: &buf, errW: &buf}

	out.Result("10-suffix")

	if !strings.Contains(buf.String(), `"result": "10-suffix"`) {
		t.Errorf("table mode should print result block, got %q", buf.String())
	}
}

func TestOutput_Result_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{jsonMode: true, w: &buf, errW: &buf}

	// В JSON-режиме полный ответ печатает Print — Result молчит
	out.Result("10-suffix")

	if buf.Len() != 0 {
		t.Errorf("json mode should print nothing, got %q", buf.String())
	}
}
