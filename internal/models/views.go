package models

// Saved view filter rule types. The numeric values are part of the stored
// representation and must not be reordered.
const (
	RuleTitleContains = iota
	RuleContentContains
	RuleASNIs
	RuleCorrespondentIs
	RuleDocumentTypeIs
	RuleIsInInbox
	RuleHasTag
	RuleHasAnyTag
	RuleCreatedBefore
	RuleCreatedAfter
	RuleCreatedYearIs
	RuleCreatedMonthIs
	RuleCreatedDayIs
	RuleAddedBefore
	RuleAddedAfter
	RuleModifiedBefore
	RuleModifiedAfter
	RuleDoesNotHaveTag
	RuleDoesNotHaveASN
	RuleTitleOrContentContains
	RuleFulltextQuery
	RuleStoragePathIs
)

// SavedView is a stored document filter with display preferences.
type SavedView struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	ShowOnDashboard bool            `json:"show_on_dashboard"`
	ShowInSidebar   bool            `json:"show_in_sidebar"`
	SortField       string          `json:"sort_field,omitempty"`
	SortReverse     bool            `json:"sort_reverse"`
	FilterRules     []SavedViewRule `json:"filter_rules"`
}

// SavedViewRule is a single filter predicate belonging to a saved view.
type SavedViewRule struct {
	ID       int64  `json:"id"`
	RuleType int    `json:"rule_type"`
	Value    string `json:"value"`
}
