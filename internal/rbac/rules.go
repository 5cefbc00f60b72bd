package rbac

const (
	PermParse  = "document:parse"
	PermCreate = "document:create"
	PermView   = "document:view"
	PermDelete = "document:delete"
	PermExport = "document:export"
	PermUpload = "document:upload"
)

// Permissions lists every permission a route can require.
var Permissions = []string{PermParse, PermCreate, PermView, PermDelete, PermExport, PermUpload}

// Default policy. Viewers read stored results, editors convert and export,
// instructors may also push quizzes to the LMS.
var RolePermissions = map[string][]string{
	"viewer": {
		PermView,
	},
	"editor": {
		PermParse,
		PermCreate,
		PermView,
		PermExport,
	},
	"instructor": {
		"document:*",
	},
	"admin": {
		"*", // everything
	},
}
