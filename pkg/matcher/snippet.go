package matcher

import "github.com/nsfid/nsfid/pkg/types"

// ExtractSnippet copies up to n bytes before offset and up to 2n bytes
// from offset onward, split into Matching (first n) and After. The copies
// are independent of content so the file buffer can be released.
func ExtractSnippet(content []byte, offset, n int) types.Snippet {
	if n <= 0 || offset < 0 || offset > len(content) {
		return types.Snippet{}
	}

	before := max(offset-n, 0)
	mid := min(offset+n, len(content))
	end := min(mid+n, len(content))

	return types.Snippet{
		Before:   clone(content[before:offset]),
		Matching: clone(content[offset:mid]),
		After:    clone(content[mid:end]),
	}
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte{}, b...)
}
