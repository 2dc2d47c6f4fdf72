package tablespec

// builtinSpecs is the catalog of curated Daktela v6 tables. Tables marked
// DateFiltered are filtered on the `edited` field within the extraction
// window; the rest are small dimension tables extracted whole.
var builtinSpecs = map[string]Spec{
	"activities": {
		Name:     "activities",
		Endpoint: "activities",
		Columns: []string{
			"name", "title", "description", "direction", "time", "time_open", "time_close",
			"stage", "action", "clid", "did", "queue.name", "queue.title", "user.name",
			"user.title", "contact.name", "contact.title", "account.name", "account.title",
			"ticket.name", "ticket.title", "campaign.name", "campaign.title", "call.name",
			"edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"queue.name", "user.name", "contact.name", "account.name", "ticket.name", "campaign.name"},
	},
	"contacts": {
		Name:     "contacts",
		Endpoint: "contacts",
		Columns: []string{
			"name", "title", "firstname", "lastname", "email", "phone", "mobile",
			"company", "position", "address", "city", "zip", "country", "description",
			"account.name", "account.title", "user.name", "user.title", "edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"account.name", "user.name"},
	},
	"tickets": {
		Name:     "tickets",
		Endpoint: "tickets",
		Columns: []string{
			"name", "title", "description", "stage", "priority", "sla_deadtime",
			"sla_change", "category.name", "category.title", "contact.name", "contact.title",
			"account.name", "account.title", "user.name", "user.title", "queue.name",
			"queue.title", "tags", "edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"category.name", "contact.name", "account.name", "user.name", "queue.name"},
		ListColumns:  []string{"tags"},
	},
	"users": {
		Name:     "users",
		Endpoint: "users",
		Columns: []string{
			"name", "title", "firstname", "lastname", "email", "phone", "mobile",
			"extension", "alias", "role.name", "role.title", "groups", "skills",
			"edited", "created",
		},
		PrimaryKeys:        []string{"name"},
		Keys:               []string{"role.name"},
		ListOfDictsColumns: []string{"groups", "skills"},
	},
	"queues": {
		Name:     "queues",
		Endpoint: "queues",
		Columns: []string{
			"name", "title", "description", "type", "strategy", "timeout", "wrapup_time",
			"max_waiting", "max_waiting_time", "edited", "created",
		},
		PrimaryKeys: []string{"name"},
	},
	"campaigns": {
		Name:     "campaigns",
		Endpoint: "campaigns",
		Columns: []string{
			"name", "title", "description", "type", "status", "queue.name", "queue.title",
			"edited", "created",
		},
		PrimaryKeys: []string{"name"},
		Keys:        []string{"queue.name"},
	},
	"accounts": {
		Name:     "accounts",
		Endpoint: "accounts",
		Columns: []string{
			"name", "title", "description", "type", "phone", "email", "website",
			"address", "city", "zip", "country", "user.name", "user.title",
			"edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"user.name"},
	},
	"calls": {
		Name:     "calls",
		Endpoint: "calls",
		Columns: []string{
			"name", "clid", "did", "direction", "disposition", "duration", "billsec",
			"recording", "queue.name", "queue.title", "user.name", "user.title",
			"contact.name", "contact.title", "edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"queue.name", "user.name", "contact.name"},
	},
	"records": {
		Name:     "records",
		Endpoint: "records",
		Columns: []string{
			"name", "title", "description", "status", "contact.name", "contact.title",
			"account.name", "account.title", "user.name", "user.title",
			"edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"contact.name", "account.name", "user.name"},
	},
	"statuses": {
		Name:        "statuses",
		Endpoint:    "statuses",
		Columns:     []string{"name", "title", "type", "color", "default", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"categories": {
		Name:     "categories",
		Endpoint: "categories",
		Columns: []string{
			"name", "title", "description", "type", "parent.name", "parent.title",
			"edited", "created",
		},
		PrimaryKeys: []string{"name"},
		Keys:        []string{"parent.name"},
	},
	"emails": {
		Name:     "emails",
		Endpoint: "emails",
		Columns: []string{
			"name", "subject", "from", "to", "cc", "bcc", "body", "direction",
			"status", "queue.name", "queue.title", "user.name", "user.title",
			"contact.name", "contact.title", "ticket.name", "ticket.title",
			"edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"queue.name", "user.name", "contact.name", "ticket.name"},
	},
	"chats": {
		Name:     "chats",
		Endpoint: "chats",
		Columns: []string{
			"name", "message", "direction", "status", "queue.name", "queue.title",
			"user.name", "user.title", "contact.name", "contact.title",
			"edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"queue.name", "user.name", "contact.name"},
	},
	"sms": {
		Name:     "sms",
		Endpoint: "sms",
		Columns: []string{
			"name", "text", "from", "to", "direction", "status",
			"user.name", "user.title", "contact.name", "contact.title",
			"edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"user.name", "contact.name"},
	},
	"devices": {
		Name:     "devices",
		Endpoint: "devices",
		Columns: []string{
			"name", "title", "type", "extension", "user.name", "user.title",
			"status", "edited", "created",
		},
		PrimaryKeys: []string{"name"},
		Keys:        []string{"user.name"},
	},
	"profiles": {
		Name:               "profiles",
		Endpoint:           "profiles",
		Columns:            []string{"name", "title", "description", "permissions", "edited", "created"},
		PrimaryKeys:        []string{"name"},
		ListOfDictsColumns: []string{"permissions"},
	},
	"pauses": {
		Name:        "pauses",
		Endpoint:    "pauses",
		Columns:     []string{"name", "title", "description", "type", "productive", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"skills": {
		Name:        "skills",
		Endpoint:    "skills",
		Columns:     []string{"name", "title", "description", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"groups": {
		Name:               "groups",
		Endpoint:           "groups",
		Columns:            []string{"name", "title", "description", "members", "edited", "created"},
		PrimaryKeys:        []string{"name"},
		ListOfDictsColumns: []string{"members"},
	},
	"fields": {
		Name:               "fields",
		Endpoint:           "fields",
		Columns:            []string{"name", "title", "type", "entity", "required", "options", "edited", "created"},
		PrimaryKeys:        []string{"name"},
		ListOfDictsColumns: []string{"options"},
	},
	"forms": {
		Name:               "forms",
		Endpoint:           "forms",
		Columns:            []string{"name", "title", "description", "type", "fields", "edited", "created"},
		PrimaryKeys:        []string{"name"},
		ListOfDictsColumns: []string{"fields"},
	},
	"templates": {
		Name:        "templates",
		Endpoint:    "templates",
		Columns:     []string{"name", "title", "type", "subject", "body", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"schedules": {
		Name:               "schedules",
		Endpoint:           "schedules",
		Columns:            []string{"name", "title", "description", "timezone", "rules", "edited", "created"},
		PrimaryKeys:        []string{"name"},
		ListOfDictsColumns: []string{"rules"},
	},
	"holidays": {
		Name:        "holidays",
		Endpoint:    "holidays",
		Columns:     []string{"name", "title", "date", "recurring", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"recordings": {
		Name:     "recordings",
		Endpoint: "recordings",
		Columns: []string{
			"name", "duration", "call.name", "user.name", "user.title",
			"url", "edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"call.name", "user.name"},
	},
	"files": {
		Name:     "files",
		Endpoint: "files",
		Columns: []string{
			"name", "title", "filename", "size", "mime", "url",
			"ticket.name", "ticket.title", "edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"ticket.name"},
	},
	"notes": {
		Name:     "notes",
		Endpoint: "notes",
		Columns: []string{
			"name", "text", "user.name", "user.title", "ticket.name", "ticket.title",
			"contact.name", "contact.title", "edited", "created",
		},
		DateFiltered: true,
		PrimaryKeys:  []string{"name"},
		Keys:         []string{"user.name", "ticket.name", "contact.name"},
	},
	"activities_statuses": {
		Name:        "activities_statuses",
		Endpoint:    "activities_statuses",
		Columns:     []string{"name", "title", "type", "category", "color", "icon", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"activities_call": {
		Name:     "activities_call",
		Endpoint: "activities",
		Child: &ChildSpec{
			Parent:       "activities",
			Endpoint:     "call",
			ParentColumn: "name",
		},
		Columns: []string{
			"name", "clid", "did", "direction", "disposition", "duration", "billsec",
			"recording", "edited", "created",
		},
		PrimaryKeys: []string{"name"},
	},
	"activities_email": {
		Name:     "activities_email",
		Endpoint: "activities",
		Child: &ChildSpec{
			Parent:       "activities",
			Endpoint:     "email",
			ParentColumn: "name",
		},
		Columns:     []string{"name", "subject", "from", "to", "cc", "bcc", "body", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"activities_chat": {
		Name:     "activities_chat",
		Endpoint: "activities",
		Child: &ChildSpec{
			Parent:       "activities",
			Endpoint:     "chat",
			ParentColumn: "name",
		},
		Columns:     []string{"name", "message", "channel", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"activities_sms": {
		Name:     "activities_sms",
		Endpoint: "activities",
		Child: &ChildSpec{
			Parent:       "activities",
			Endpoint:     "sms",
			ParentColumn: "name",
		},
		Columns:     []string{"name", "text", "from", "to", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"tickets_categories": {
		Name:     "tickets_categories",
		Endpoint: "tickets/categories",
		Columns: []string{
			"name", "title", "description", "parent.name", "parent.title", "edited", "created",
		},
		PrimaryKeys: []string{"name"},
		Keys:        []string{"parent.name"},
	},
	"contacts_custom_fields": {
		Name:        "contacts_custom_fields",
		Endpoint:    "contacts/custom_fields",
		Columns:     []string{"name", "title", "type", "value", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"accounts_custom_fields": {
		Name:        "accounts_custom_fields",
		Endpoint:    "accounts/custom_fields",
		Columns:     []string{"name", "title", "type", "value", "edited", "created"},
		PrimaryKeys: []string{"name"},
	},
	"users_queues": {
		Name:        "users_queues",
		Endpoint:    "users/queues",
		Columns:     []string{"user.name", "queue.name", "queue.title", "priority", "edited", "created"},
		PrimaryKeys: []string{"user.name", "queue.name"},
		Keys:        []string{"user.name", "queue.name"},
	},
}
