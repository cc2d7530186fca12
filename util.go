package geodesy

import "strconv"

// formatFloat renders f the way a definition string would carry it, for
// synthesizing RawParameters.Args entries from resolved defaults (e.g.
// the helmert operator's datum= convenience).
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
