package criteria

// Section groups the checklist items that share a bucket prefix.
type Section struct {
	Title  string   `json:"title" yaml:"title"`
	Prefix string   `json:"prefix" yaml:"prefix"`
	Items  []string `json:"items" yaml:"items"`
}

// Entry is the catalog definition of one disorder.
type Entry struct {
	Key      string    `json:"key" yaml:"key"`
	Name     string    `json:"name" yaml:"name"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Item is a single checked criterion, tagged with the prefix of the section it came from.
type Item struct {
	Text    string `json:"text" yaml:"text"`
	Section string `json:"section" yaml:"section"`
}

// Selection is the ordered list of items a clinician checked.
type Selection []Item

// Summary is the listing form of an entry.
type Summary struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Sections int      `json:"sections"`
	Prefixes []string `json:"prefixes"`
}

func (e *Entry) Section(prefix string) (*Section, bool) {
	for i := range e.Sections {
		if e.Sections[i].Prefix == prefix {
			return &e.Sections[i], true
		}
	}
	return nil, false
}

// Items flattens the entry into selection items in authored order.
func (e *Entry) Items() Selection {
	var sel Selection
	for _, s := range e.Sections {
		for _, text := range s.Items {
			sel = append(sel, Item{Text: text, Section: s.Prefix})
		}
	}
	return sel
}

func (e *Entry) Summary() Summary {
	sum := Summary{Key: e.Key, Name: e.Name, Sections: len(e.Sections)}
	for _, s := range e.Sections {
		sum.Prefixes = append(sum.Prefixes, s.Prefix)
	}
	return sum
}

func (e Entry) clone() Entry {
	out := Entry{Key: e.Key, Name: e.Name, Sections: make([]Section, len(e.Sections))}
	for i, s := range e.Sections {
		out.Sections[i] = Section{
			Title:  s.Title,
			Prefix: s.Prefix,
			Items:  append([]string(nil), s.Items...),
		}
	}
	return out
}
