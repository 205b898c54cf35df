package rod

import (
	"strings"
	"testing"
)

func TestCleanFormHTML_RemovesScriptStyle(t *testing.T) {
	raw := `
<form id="frmConsignment">
    <input id="CNM_VNOSEQ" value="CN-1001">
    <script>validate()</script>
    <style>.x {}</style>
</form>`

	out := cleanFormHTML(raw)

	if strings.Contains(out, "<script") || strings.Contains(out, "<style") {
		t.Errorf("script/style must be removed, got: %s", out)
	}
	if !strings.Contains(out, `id="CNM_VNOSEQ"`) {
		t.Errorf("control ids must survive, got: %s", out)
	}
}

func TestCleanFormHTML_RemovesComments(t *testing.T) {
	out := cleanFormHTML(`<form><!-- internal note --><input id="x"></form>`)
	if strings.Contains(out, "internal note") {
		t.Errorf("comments must be removed, got: %s", out)
	}
}

func TestCleanFormHTML_KeepsLiveValueAnnotation(t *testing.T) {
	raw := `<form><input id="CNM_VDATE" data-live-value="05/03/2024" data-bind="value: date" aria-required="true"></form>`

	out := cleanFormHTML(raw)

	if !strings.Contains(out, `data-live-value="05/03/2024"`) {
		t.Errorf("live value annotation must be kept, got: %s", out)
	}
	if strings.Contains(out, "data-bind") || strings.Contains(out, "aria-required") {
		t.Errorf("data-*/aria-* noise must be removed, got: %s", out)
	}
}

func TestCleanFormHTML_DropsDecorativeAttributes(t *testing.T) {
	raw := `<form><input id="x" style="color:red" class="form-control" tabindex="3" onchange="recalc()"></form>`

	out := cleanFormHTML(raw)

	for _, gone := range []string{"style=", "class=", "tabindex=", "onchange="} {
		if strings.Contains(out, gone) {
			t.Errorf("%s must be removed, got: %s", gone, out)
		}
	}
	if !strings.Contains(out, `id="x"`) {
		t.Errorf("id must survive, got: %s", out)
	}
}

func TestCleanFormHTML_TruncatesOversizedMarkup(t *testing.T) {
	raw := "<form>" + strings.Repeat(`<input id="f">`, 10_000) + "</form>"

	out := cleanFormHTML(raw)

	if len(out) > snapshotMaxSize+100 {
		t.Errorf("snapshot not truncated: %d bytes", len(out))
	}
	if !strings.Contains(out, "snapshot truncated") {
		t.Errorf("truncation marker missing")
	}
}

func TestCleanFormHTML_UnparseableFallsBackToRaw(t *testing.T) {
	// html.Parse is extremely tolerant; whatever comes back must be non-empty
	// for non-empty input so diagnostics never silently vanish.
	out := cleanFormHTML("<<<not really html>>>")
	if out == "" {
		t.Error("fallback output must not be empty")
	}
}
