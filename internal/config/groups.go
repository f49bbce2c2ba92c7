package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"jobmate/jobcollect/internal/model"
)

// Shared post-scrape rules used by every built-in group.
var (
	defaultTitleInclude = []string{"Engineer", "Developer", "Scientist", "Researcher"}

	defaultTitleExclude = []string{"Intern", "Senior", "Sr", "Principal", "Staff",
		"Manager", "Director", "Lead", "VP", "Vice", "Head", "Chief"}

	defaultDescriptionInclude = []string{"Bachelor", "Bachelors", "Bachelor's",
		"BS ", "BSE ", "BSc ", "B.S.", "B.Sc."}

	defaultDescriptionExclude = []string{"LangChain", "LlamaIndex", "OpenAI API",
		"Haystack", "Prompt Engineer", "Prompt Engineering", "Prompt Design",
		"RAG", "Retrieval-Augmented Generation", "Vector Database",
		"Pinecone", "ChromaDB", "Weaviate"}
)

// DefaultSearch returns the built-in board parameters.
func DefaultSearch() Search {
	return Search{
		ResultsWanted: 500,
		HoursOld:      48,
		Locations:     []string{"United States"},
	}
}

// DefaultGroups returns the built-in search groups. Each call returns fresh
// slices.
func DefaultGroups() []model.SearchGroup {
	groups := []model.SearchGroup{
		{
			Name: "Reinforcement Learning",
			SearchInclude: []string{"Reinforcement Learning", "Optimal Control",
				"Markov Decision Process", "Dynamic Programming"},
		},
		{
			Name: "Machine Learning",
			SearchInclude: []string{"Machine Learning", "Deep Learning",
				"Neural Network", "Computer Vision"},
		},
		{
			Name:          "Embedded Systems",
			SearchInclude: []string{"Embedded", "Firmware"},
		},
	}
	shared := rules{
		TitleInclude:       defaultTitleInclude,
		TitleExclude:       defaultTitleExclude,
		DescriptionInclude: defaultDescriptionInclude,
		DescriptionExclude: defaultDescriptionExclude,
	}
	for i := range groups {
		shared.fill(&groups[i])
	}
	return groups
}

// rules are the post-scrape term lists a groups file may share.
type rules struct {
	TitleInclude       []string `yaml:"title_include"`
	TitleExclude       []string `yaml:"title_exclude"`
	DescriptionInclude []string `yaml:"description_include"`
	DescriptionExclude []string `yaml:"description_exclude"`
}

// fill copies every list g leaves unset. An explicit empty list in the file
// stays empty.
func (r rules) fill(g *model.SearchGroup) {
	if g.TitleInclude == nil {
		g.TitleInclude = clone(r.TitleInclude)
	}
	if g.TitleExclude == nil {
		g.TitleExclude = clone(r.TitleExclude)
	}
	if g.DescriptionInclude == nil {
		g.DescriptionInclude = clone(r.DescriptionInclude)
	}
	if g.DescriptionExclude == nil {
		g.DescriptionExclude = clone(r.DescriptionExclude)
	}
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

// groupsFile is the YAML layout of configs/groups.yaml:
//
//	results_wanted: 500
//	hours_old: 48
//	locations: ["United States"]
//	shared:
//	  title_exclude: ["Senior", "Staff"]
//	groups:
//	  - name: Embedded Systems
//	    search_include: ["Embedded", "Firmware"]
type groupsFile struct {
	ResultsWanted int                 `yaml:"results_wanted"`
	HoursOld      int                 `yaml:"hours_old"`
	Locations     []string            `yaml:"locations"`
	Shared        rules               `yaml:"shared"`
	Groups        []model.SearchGroup `yaml:"groups"`
}

// applyGroupsFile overlays a groups file on cfg. Unset search parameters keep
// their defaults; a non-empty group list replaces the built-in groups.
func applyGroupsFile(cfg *Config, data []byte) error {
	var f groupsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if f.ResultsWanted != 0 {
		cfg.Search.ResultsWanted = f.ResultsWanted
	}
	if f.HoursOld != 0 {
		cfg.Search.HoursOld = f.HoursOld
	}
	if len(f.Locations) > 0 {
		cfg.Search.Locations = f.Locations
	}

	if len(f.Groups) > 0 {
		for i := range f.Groups {
			f.Shared.fill(&f.Groups[i])
		}
		cfg.Groups = f.Groups
	}
	return nil
}
