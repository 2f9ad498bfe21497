package shortcut

import pluralizer "github.com/gertd/go-pluralize"

var pluralizeClient = pluralizer.NewClient()

// fromTableName derives the backing table of a table descriptor when no
// explicit fromTable is set: "orderItem" selects from "orderItems".
func fromTableName(d Descriptor) string {
	if d.FromTable != "" {
		return d.FromTable
	}
	return pluralizeClient.Plural(d.Name)
}
