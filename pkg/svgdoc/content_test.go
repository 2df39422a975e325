package svgdoc

import "testing"

func TestInnerContent(t *testing.T) {
	body, ok := InnerContent(`<svg viewBox="0 0 10 10"><rect/><g><circle/></g></svg>`)
	if !ok {
		t.Fatal("InnerContent() not found")
	}
	if body != `<rect/><g><circle/></g>` {
		t.Errorf("InnerContent() = %q", body)
	}

	if _, ok := InnerContent(`<rect/>`); ok {
		t.Error("InnerContent() succeeded without a root element")
	}
	if _, ok := InnerContent(`<svg><rect/>`); ok {
		t.Error("InnerContent() succeeded without a closing tag")
	}
}

func TestAppendBeforeClose(t *testing.T) {
	out, ok := AppendBeforeClose(`<svg><rect/></svg>`, `<circle/>`)
	if !ok {
		t.Fatal("AppendBeforeClose() failed")
	}
	if out != `<svg><rect/><circle/></svg>` {
		t.Errorf("AppendBeforeClose() = %q", out)
	}

	if _, ok := AppendBeforeClose(`<svg><rect/>`, `<circle/>`); ok {
		t.Error("AppendBeforeClose() succeeded without a closing tag")
	}
}
