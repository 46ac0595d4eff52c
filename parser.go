package bibweb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const commentMarker = "%%"

// cutset trimmed from both sides of keys, values and citation ids.
const fieldCutset = " ,\t\n{}\""

// Parse parses a bibtex bibliography provided as an io.Reader or as a
// file name (when r is nil). It never rejects malformed entries: a
// fragment without an opening brace degrades to an entry with an empty
// body and is weeded out later by the mandatory-field checks.
func Parse(r io.Reader, fileName string) (*File, error) {
	if r == nil {
		if fileName == "" {
			return nil, fmt.Errorf("nothing to parse")
		}
		f, err := os.Open(fileName)
		if err != nil {
			return nil, fmt.Errorf("can't process file %s: %w", fileName, err)
		}
		defer f.Close()
		r = f
	}
	return newParser(r, fileName).parse()
}

type parser struct {
	r         *bufio.Reader
	fileName  string
	rawBuffer []byte // reused when a line overflows the reader buffer
	lineNum   int
}

func newParser(r io.Reader, fileName string) *parser {
	return &parser{
		r:        bufio.NewReaderSize(r, 2048),
		fileName: fileName,
	}
}

// readLine reads the next line without the trailing newline marker(s).
// If EOF is hit without a trailing endline, it is omitted; if some bytes
// were read the error is never io.EOF. The result is only valid until
// the next call to readLine.
func (p *parser) readLine() ([]byte, error) {
	line, err := p.r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		p.rawBuffer = append(p.rawBuffer[:0], line...)
		for err == bufio.ErrBufferFull {
			line, err = p.r.ReadSlice('\n')
			p.rawBuffer = append(p.rawBuffer, line...)
		}
		line = p.rawBuffer
	}
	if n := len(line); n > 0 && err == io.EOF {
		err = nil
		if line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	p.lineNum++
	// normalize \r\n to \n
	if n := len(line); n >= 2 && line[n-2] == '\r' && line[n-1] == '\n' {
		line[n-2] = '\n'
		line = line[:n-1]
	}
	return line, err
}

// parse slices the input into @-delimited fragments and parses each
// fragment into an Entry. Comment lines (leading %%) are dropped before
// splitting, so a stray @ inside a comment line never opens an entry.
func (p *parser) parse() (*File, error) {
	var (
		kept    []string
		keptNum []int // source line of each kept line
		scanErr error
		line    []byte
	)
	for scanErr == nil {
		line, scanErr = p.readLine()
		s := strings.TrimSpace(string(line))
		if s == "" || strings.HasPrefix(s, commentMarker) {
			continue
		}
		kept = append(kept, s)
		keptNum = append(keptNum, p.lineNum)
	}
	if scanErr != io.EOF {
		return nil, fmt.Errorf("reading %s at line %d: %w", p.fileName, p.lineNum, scanErr)
	}

	file := newFile(p.fileName)
	text := strings.Join(kept, "\n")
	offset := 0
	for i, chunk := range strings.Split(text, "@") {
		if i > 0 {
			offset++ // the @ itself
		}
		start := offset
		offset += len(chunk)
		if chunk == "" {
			continue
		}
		file.AddEntry(parseChunk(chunk, lineAt(text, keptNum, start)))
	}
	return file, nil
}

// lineAt maps a byte offset in the joined text back to a source line number.
func lineAt(text string, keptNum []int, offset int) int {
	if len(keptNum) == 0 {
		return 0
	}
	idx := strings.Count(text[:offset], "\n")
	if idx >= len(keptNum) {
		idx = len(keptNum) - 1
	}
	return keptNum[idx]
}

// parseChunk partitions one @-delimited fragment into an Entry. The
// format is too informal for a grammar: a single left-to-right partition
// at the first brace, comma and equals sign accepts the common
// IEEE/ACM-style single-line values and degrades quietly on anything
// else. The rightmost } closes the entry; unbalanced inner braces inside
// values are only handled by trimming.
func parseChunk(chunk string, line int) *Entry {
	fields := make(Fields, 8)
	entry := &Entry{Fields: fields, line: line}

	typ, rest, ok := strings.Cut(chunk, "{")
	fields["type"] = strings.ToLower(strings.Trim(typ, fieldCutset))
	fields["id"] = ""
	if !ok {
		// stray @ in running text; keep the type token for diagnostics,
		// leave the body empty
		return entry
	}
	id, body, _ := strings.Cut(rest, ",")
	fields["id"] = strings.Trim(id, fieldCutset)
	if i := strings.LastIndexByte(body, '}'); i >= 0 {
		body = body[:i]
	} else {
		body = ""
	}
	for _, fld := range strings.Split(body, "\n") {
		if fld == "" {
			continue
		}
		key, value, _ := strings.Cut(fld, "=")
		key = strings.ToLower(strings.Trim(key, fieldCutset))
		if key == "" {
			continue
		}
		// last assignment wins on duplicate keys
		fields[key] = strings.Trim(value, fieldCutset)
	}
	return entry
}
