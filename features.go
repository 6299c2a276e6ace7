package blockdoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Features enumerates the capabilities enabled for one document field.
// Every behavior and the toolbar treat it as authoritative.
type Features struct {
	Formatting      Formatting                    `yaml:"formatting"`
	Links           bool                          `yaml:"links"`
	Dividers        bool                          `yaml:"dividers"`
	Layouts         [][]int                       `yaml:"layouts"`
	Relationships   map[string]RelationshipConfig `yaml:"relationships"`
	ComponentBlocks bool                          `yaml:"componentBlocks"`
}

// Formatting lists the enabled marks and block styles.
type Formatting struct {
	InlineMarks   []Mark     `yaml:"inlineMarks"`
	ListTypes     ListTypes  `yaml:"listTypes"`
	Alignment     Alignments `yaml:"alignment"`
	HeadingLevels []int      `yaml:"headingLevels"`
	BlockTypes    BlockTypes `yaml:"blockTypes"`
	SoftBreaks    bool       `yaml:"softBreaks"`
}

type ListTypes struct {
	Ordered   bool `yaml:"ordered"`
	Unordered bool `yaml:"unordered"`
}

type Alignments struct {
	Center bool `yaml:"center"`
	End    bool `yaml:"end"`
}

type BlockTypes struct {
	Blockquote bool `yaml:"blockquote"`
	Code       bool `yaml:"code"`
}

// RelationshipConfig declares an insertable reference kind.
type RelationshipConfig struct {
	ListKey   string `yaml:"listKey"`
	Label     string `yaml:"label"`
	Selection string `yaml:"selection"`
}

// AllFormatting enables every formatting capability.
func AllFormatting() Formatting {
	return Formatting{
		InlineMarks:   append([]Mark(nil), FormattingMarks...),
		ListTypes:     ListTypes{Ordered: true, Unordered: true},
		Alignment:     Alignments{Center: true, End: true},
		HeadingLevels: []int{1, 2, 3, 4, 5, 6},
		BlockTypes:    BlockTypes{Blockquote: true, Code: true},
		SoftBreaks:    true,
	}
}

// AllFeatures enables everything except relationships, which need config.
func AllFeatures() *Features {
	return &Features{
		Formatting:      AllFormatting(),
		Links:           true,
		Dividers:        true,
		Layouts:         [][]int{{1}, {1, 1}, {1, 2}, {2, 1}, {1, 1, 1}},
		ComponentBlocks: true,
	}
}

// UnmarshalYAML accepts `formatting: true` as shorthand for AllFormatting.
func (f *Formatting) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var on bool
		if err := node.Decode(&on); err != nil {
			return err
		}
		if on {
			*f = AllFormatting()
		} else {
			*f = Formatting{}
		}
		return nil
	}
	type plain Formatting
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = Formatting(p)
	return nil
}

// ParseFeatures decodes a YAML feature configuration.
func ParseFeatures(data []byte) (*Features, error) {
	var f Features
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse features: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFeatures reads a YAML feature configuration from path.
func LoadFeatures(path string) (*Features, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read features: %w", err)
	}
	return ParseFeatures(data)
}

// Validate rejects configurations no editor could honor.
func (f *Features) Validate() error {
	for _, l := range f.Formatting.HeadingLevels {
		if l < 1 || l > 6 {
			return fmt.Errorf("%w: heading level %d", ErrInvalidFeatures, l)
		}
	}
	for _, m := range f.Formatting.InlineMarks {
		if !isKnownMark(m) || m == MarkInsertMenu {
			return fmt.Errorf("%w: unknown mark %q", ErrInvalidFeatures, m)
		}
	}
	for _, layout := range f.Layouts {
		if len(layout) == 0 {
			return fmt.Errorf("%w: empty layout", ErrInvalidFeatures)
		}
		for _, r := range layout {
			if r <= 0 {
				return fmt.Errorf("%w: layout %v has non-positive ratio", ErrInvalidFeatures, layout)
			}
		}
	}
	for name, rel := range f.Relationships {
		if rel.ListKey == "" {
			return fmt.Errorf("%w: relationship %q has no listKey", ErrInvalidFeatures, name)
		}
	}
	return nil
}

// MarkEnabled reports whether m may be applied.
func (f *Features) MarkEnabled(m Mark) bool {
	for _, x := range f.Formatting.InlineMarks {
		if x == m {
			return true
		}
	}
	return false
}

// HeadingEnabled reports whether headings of level l are allowed.
func (f *Features) HeadingEnabled(l int) bool {
	for _, x := range f.Formatting.HeadingLevels {
		if x == l {
			return true
		}
	}
	return false
}

// ListEnabled reports whether the list type t is allowed.
func (f *Features) ListEnabled(t NodeType) bool {
	switch t {
	case TypeOrderedList:
		return f.Formatting.ListTypes.Ordered
	case TypeUnorderedList:
		return f.Formatting.ListTypes.Unordered
	}
	return false
}

// AlignmentEnabled reports whether a is allowed. Start is always allowed.
func (f *Features) AlignmentEnabled(a Alignment) bool {
	switch a {
	case AlignStart:
		return true
	case AlignCenter:
		return f.Formatting.Alignment.Center
	case AlignEnd:
		return f.Formatting.Alignment.End
	}
	return false
}

// LayoutAllowed reports whether the ratio list is one of the configured layouts.
func (f *Features) LayoutAllowed(layout []int) bool {
	for _, l := range f.Layouts {
		if equalInts(l, layout) {
			return true
		}
	}
	return false
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
