package gazetteer

import "github.com/laicai0810/addr-parser-cn/internal/models"

// Store holds the flat gazetteer tables, one per administrative level. It is
// produced once by a repository and read-only afterwards; all derived lookup
// structures live in Index.
type Store struct {
	Provinces []models.Region
	Cities    []models.Region
	Districts []models.Region
}
