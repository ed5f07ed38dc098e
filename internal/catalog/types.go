package catalog

// Topic is a suggested exam topic.
type Topic struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Subject     string `yaml:"subject" json:"subject,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
	MinGrade    int    `yaml:"min_grade" json:"minGrade,omitempty"`
	MaxGrade    int    `yaml:"max_grade" json:"maxGrade,omitempty"`
}

// SuitsGrade reports whether the topic is suggested for grade. Zero bounds are open.
func (t Topic) SuitsGrade(grade int) bool {
	if t.MinGrade > 0 && grade < t.MinGrade {
		return false
	}
	if t.MaxGrade > 0 && grade > t.MaxGrade {
		return false
	}
	return true
}

// topicSet is the on-disk shape of one catalogue file.
type topicSet struct {
	Subject string  `yaml:"subject"`
	Topics  []Topic `yaml:"topics"`
}
