//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strings"

	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// RefListingBuilder assembles "git ls-remote" output line by line.
type RefListingBuilder struct {
	*testkit.BaseBuilder
	lines []string
}

// NewRefListingBuilder creates an empty listing builder.
func NewRefListingBuilder() *RefListingBuilder {
	return &RefListingBuilder{BaseBuilder: testkit.NewBaseBuilder()}
}

// WithTag adds a lightweight or annotated tag line.
func (b *RefListingBuilder) WithTag(hash, name string) *RefListingBuilder {
	return b.WithLine(hash + "\trefs/tags/" + name)
}

// WithPeeledTag adds the dereferenced line of an annotated tag.
func (b *RefListingBuilder) WithPeeledTag(hash, name string) *RefListingBuilder {
	return b.WithLine(hash + "\trefs/tags/" + name + "^{}")
}

// WithBranch adds a branch head line.
func (b *RefListingBuilder) WithBranch(hash, name string) *RefListingBuilder {
	return b.WithLine(hash + "\trefs/heads/" + name)
}

// WithLine adds a raw line.
func (b *RefListingBuilder) WithLine(line string) *RefListingBuilder {
	b.lines = append(b.lines, line)
	return b
}

// Build creates the listing (satisfies testkit.Builder interface).
func (b *RefListingBuilder) Build() interface{} {
	return b.BuildOutput()
}

// BuildOutput returns the listing as the tool would print it.
func (b *RefListingBuilder) BuildOutput() []byte {
	if len(b.lines) == 0 {
		return nil
	}
	return []byte(strings.Join(b.lines, "\n") + "\n")
}

// Reset clears the builder state, allowing it to be reused.
func (b *RefListingBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.lines = nil
	return b
}

// Clone creates a deep copy of the RefListingBuilder.
func (b *RefListingBuilder) Clone() testkit.Builder {
	return &RefListingBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		lines:       append([]string(nil), b.lines...),
	}
}
