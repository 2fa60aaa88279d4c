package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/inkwell/internal/theme"
	"github.com/bethropolis/inkwell/internal/tui"
	"github.com/gdamore/tcell/v2"
)

func TestText(t *testing.T) {
	sb := New(time.Second)
	left, right := sb.Text()
	if left != " [No Name]" || right != " " {
		t.Fatalf("empty bar: got %q / %q", left, right)
	}

	sb.SetFileInfo("/tmp/notes.html", true)
	sb.SetSelectionInfo("li", []string{"bold", "ul"})
	sb.SetWordsLabel("2 words")
	sb.SetHistoryInfo(true, false)
	left, right = sb.Text()
	if want := " notes.html [+] | <li> | 2 words | [u]"; left != want {
		t.Fatalf("left: got %q, want %q", left, want)
	}
	if want := "bold ul "; right != want {
		t.Fatalf("right: got %q, want %q", right, want)
	}
}

func TestMessageExpires(t *testing.T) {
	sb := New(time.Second)
	now := time.Unix(100, 0)
	sb.now = func() time.Time { return now }

	sb.SetTemporaryMessage("Saved %s", "a.html")
	if got := sb.Message(); got != "Saved a.html" {
		t.Fatalf("got %q, want %q", got, "Saved a.html")
	}
	now = now.Add(2 * time.Second)
	if got := sb.Message(); got != "" {
		t.Fatalf("expired message still shown: %q", got)
	}
}

func rowText(s tcell.SimulationScreen, y int) string {
	cells, width, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		sb.WriteString(string(cells[y*width+x].Runes))
	}
	return sb.String()
}

func TestDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	ui, err := tui.NewWithScreen(screen, tcell.StyleDefault)
	if err != nil {
		t.Fatal(err)
	}
	defer ui.Close()
	screen.SetSize(40, 3)

	sb := New(time.Minute)
	sb.SetFileInfo("doc.html", false)
	sb.SetSelectionInfo("p", []string{"bold"})
	sb.Draw(ui, &theme.InkwellDark)
	screen.Show()
	line := rowText(screen, 2)
	if !strings.HasPrefix(line, " doc.html | <p>") || !strings.HasSuffix(line, "bold ") {
		t.Fatalf("status line: got %q", line)
	}

	sb.SetPrompt(":theme")
	sb.Draw(ui, &theme.InkwellDark)
	screen.Show()
	if line := rowText(screen, 2); !strings.HasPrefix(line, ":theme ") {
		t.Fatalf("prompt line: got %q", line)
	}
}
