package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/bethropolis/inkwell/internal/config"
	"github.com/bethropolis/inkwell/internal/core"
	"github.com/bethropolis/inkwell/internal/logger"
)

// Dump loads filePath without a terminal, applies each command token to the
// whole document and writes the resulting HTML to w.
func Dump(cfg *config.Config, filePath string, tokens []string, w io.Writer) error {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	markup, _, err := readDocument(filePath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(markup) == "" {
		markup = "<p>" + cfg.Editor.Placeholder + "</p>"
	}
	editor, err := core.Parse(markup,
		core.WithHistoryLimit(cfg.Editor.HistoryLimit),
		core.WithPlaceholder(cfg.Editor.Placeholder),
	)
	if err != nil {
		return fmt.Errorf("cannot open '%s': %w", filePath, err)
	}
	defer editor.Close()

	for _, token := range tokens {
		editor.SelectAll()
		if err := editor.ExecToken(token); err != nil {
			return fmt.Errorf("%s: %w", token, err)
		}
		logger.Debugf("Dump: applied '%s'", token)
	}
	_, err = fmt.Fprintln(w, editor.HTML())
	return err
}
