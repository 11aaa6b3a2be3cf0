package entity

// Catalog returns the fixed set of entity descriptors known to this build.
// Adding an entity type means adding one element here plus its strategies;
// nothing else needs to change.
//
// The order of the slice is the discovery order used to break scheduling
// ties, so it is part of the observable behavior.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:                    "repository",
			ConfigKey:               "INCLUDE_REPOSITORY",
			DefaultEnabled:          true,
			ValueKind:               Boolean,
			RequiredServicesSave:    []Service{ServiceGit, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceGit, ServiceStorage},
			Description:             "git repository mirror",
		},
		{
			Name:                    "labels",
			ConfigKey:               "INCLUDE_LABELS",
			DefaultEnabled:          true,
			ValueKind:               Boolean,
			RequiredServicesSave:    []Service{ServiceRemote, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceRemote, ServiceStorage, ServiceConflictPolicy},
			Description:             "issue and pull request labels",
		},
		{
			Name:                    "milestones",
			ConfigKey:               "INCLUDE_MILESTONES",
			DefaultEnabled:          true,
			ValueKind:               Boolean,
			RequiredServicesSave:    []Service{ServiceRemote, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceRemote, ServiceStorage, ServiceConflictPolicy},
			Description:             "milestones",
		},
		{
			Name:                    "issues",
			ConfigKey:               "INCLUDE_ISSUES",
			DefaultEnabled:          true,
			ValueKind:               NumericSelection,
			Dependencies:            []string{"labels", "milestones"},
			RequiredServicesSave:    []Service{ServiceRemote, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceRemote, ServiceStorage, ServiceConflictPolicy},
			Description:             "issues, optionally limited to specific numbers",
		},
		{
			Name:                    "comments",
			ConfigKey:               "INCLUDE_COMMENTS",
			DefaultEnabled:          true,
			ValueKind:               Boolean,
			Dependencies:            []string{"issues"},
			RequiredServicesSave:    []Service{ServiceRemote, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceRemote, ServiceStorage},
			Description:             "issue comments",
		},
		{
			Name:                    "sub_issues",
			ConfigKey:               "INCLUDE_SUB_ISSUES",
			DefaultEnabled:          true,
			ValueKind:               Boolean,
			Dependencies:            []string{"issues"},
			RequiredServicesSave:    []Service{ServiceRemote, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceRemote, ServiceStorage},
			Description:             "parent/child issue relationships",
		},
		{
			Name:                    "pulls",
			ConfigKey:               "INCLUDE_PULLS",
			DefaultEnabled:          true,
			ValueKind:               NumericSelection,
			Dependencies:            []string{"labels", "milestones"},
			RequiredServicesSave:    []Service{ServiceRemote, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceRemote, ServiceStorage, ServiceConflictPolicy},
			Description:             "pull requests, optionally limited to specific numbers",
		},
		{
			Name:                    "reviews",
			ConfigKey:               "INCLUDE_REVIEWS",
			DefaultEnabled:          true,
			ValueKind:               Boolean,
			Dependencies:            []string{"pulls"},
			RequiredServicesSave:    []Service{ServiceRemote, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceRemote, ServiceStorage},
			Description:             "pull request reviews",
		},
		{
			Name:                    "releases",
			ConfigKey:               "INCLUDE_RELEASES",
			DefaultEnabled:          true,
			ValueKind:               Boolean,
			RequiredServicesSave:    []Service{ServiceRemote, ServiceStorage},
			RequiredServicesRestore: []Service{ServiceRemote, ServiceStorage},
			Description:             "releases and tags metadata",
		},
	}
}
