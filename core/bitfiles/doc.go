// Package bitfiles names the bookkeeping files bitbackup keeps inside a scan root.
//
// Every checked directory carries its own inventory, digest, ignore file, report and
// optional index. Layout resolves them to absolute paths once per run so the other
// packages never assemble file names themselves.
//
// # Usage
//
//	layout, err := bitfiles.NewLayout("/srv/archive")
//	fmt.Println(layout.Store) // /srv/archive/.bitbackup.sqlite3
package bitfiles
