// Package files provides the file system operations used to write run
// outputs.
//
// Manager.WriteFile writes through a pending file in the destination
// directory and renames it into place (renameio on Unix, natefinch/atomic on
// Windows), so readers never observe a partially written spreadsheet, report
// or image.
//
// Example usage:
//
//	manager := files.NewManager(logger)
//	err := manager.WriteFile("out/relatorio.csv", func(w io.Writer) error {
//	    _, err := io.WriteString(w, content)
//	    return err
//	})
package files
