package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut)

	p.Successf("wrote %s", "a.txt")
	p.Infof("cwd is %s", "/tmp")
	p.Printf("plain %d", 1)
	p.Warnf("careful")
	p.Errorf("failed: %s", "boom")

	assert.Contains(t, out.String(), "wrote a.txt")
	assert.Contains(t, out.String(), "cwd is /tmp")
	assert.Contains(t, out.String(), "plain 1")
	assert.NotContains(t, out.String(), "boom")

	assert.Contains(t, errOut.String(), "careful")
	assert.Contains(t, errOut.String(), "failed: boom")
}

func TestPrinter_Items(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &out)

	p.Section("Tools")
	p.CheckItem("git", "/usr/bin/git")
	p.WarnItem("pip", "")
	p.FailItem("npm", "missing")
	p.Muted("")

	s := out.String()
	assert.Contains(t, s, "Tools")
	assert.Contains(t, s, "git")
	assert.Contains(t, s, "/usr/bin/git")
	assert.Contains(t, s, "pip")
	assert.Contains(t, s, "missing")
}

func TestCtx(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &out)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}
