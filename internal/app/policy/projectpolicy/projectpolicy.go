// internal/app/policy/projectpolicy/projectpolicy.go

// Package projectpolicy decides who can see and change projects.
//
// Global roles (admin, spoc, member) come from the role directory. A
// per-project access level is derived from the global role plus the
// project's creator and assignee list; everything a handler needs to
// gate an operation comes from these two.
package projectpolicy

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/teamhub/internal/domain/models"
)

// AccessLevel is the derived per-project permission tier.
type AccessLevel string

const (
	LevelAdmin     AccessLevel = "admin"
	LevelModerator AccessLevel = "moderator"
	LevelMember    AccessLevel = "member"
	LevelNone      AccessLevel = "none"
)

// Evaluate computes the access level for one user on one project.
// Admins and SPOCs get their tier from the global role alone; everyone
// else is a member only on projects they created or are assigned to.
// Pure function over already-loaded data.
func Evaluate(userID primitive.ObjectID, role string, p *models.Project) AccessLevel {
	switch role {
	case models.RoleAdmin:
		return LevelAdmin
	case models.RoleSPOC:
		return LevelModerator
	}
	if p == nil {
		return LevelNone
	}
	if p.CreatedBy == userID {
		return LevelMember
	}
	for _, a := range p.Assignees {
		if a.UserID == userID {
			return LevelMember
		}
	}
	return LevelNone
}

// CanCreate reports whether the global role may create projects.
func CanCreate(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSPOC
}

// CanUpdate reports whether the access level allows full edits.
func CanUpdate(level AccessLevel) bool {
	return level == LevelAdmin || level == LevelModerator
}

// CanDelete reports whether the global role may hard-delete a project.
// Deliberately stricter than CanUpdate.
func CanDelete(role string) bool {
	return role == models.RoleAdmin
}

// CanRead reports whether the access level allows viewing the project.
func CanRead(level AccessLevel) bool {
	return level != LevelNone
}

// CanComment reports whether the access level allows adding comments.
func CanComment(level AccessLevel) bool {
	return level != LevelNone
}

// StatusOverdue is accepted as a status filter even though it is not a
// stored status: it selects unfinished projects past their due date.
const StatusOverdue = "overdue"

// ListQuery are the caller-supplied list filters.
type ListQuery struct {
	Status          string
	Priority        string
	Assignee        string // ObjectID hex of an assignee
	Search          string // case-insensitive match on title/description
	IncludeArchived bool
}

// BuildListFilter constructs the Mongo filter for project lists.
// Archived projects are excluded unless asked for, and non-admins are
// scoped to projects they created or are assigned to. Caller filters
// are intersected with that scope.
func BuildListFilter(userID primitive.ObjectID, role string, q ListQuery, now time.Time) bson.M {
	filter := bson.M{}
	if !q.IncludeArchived {
		filter["is_archived"] = false
	}

	if role != models.RoleAdmin {
		filter["$or"] = bson.A{
			bson.M{"created_by": userID},
			bson.M{"assignees.user_id": userID},
		}
	}

	switch q.Status {
	case "":
	case StatusOverdue:
		// Derived condition, not a stored value.
		filter["status"] = bson.M{"$ne": models.StatusDone}
		filter["due_date"] = bson.M{"$lt": now}
	default:
		filter["status"] = q.Status
	}

	if q.Priority != "" {
		filter["priority"] = q.Priority
	}
	if q.Assignee != "" {
		if oid, err := primitive.ObjectIDFromHex(q.Assignee); err == nil {
			filter["assignees.user_id"] = oid
		}
	}
	if q.Search != "" {
		search := bson.M{"$regex": primitive.Regex{Pattern: regexEscape(q.Search), Options: "i"}}
		clause := bson.A{
			bson.M{"title": search},
			bson.M{"description": search},
		}
		// $or is already taken by the access scope for non-admins.
		if existing, ok := filter["$or"]; ok {
			filter["$and"] = bson.A{
				bson.M{"$or": existing},
				bson.M{"$or": clause},
			}
			delete(filter, "$or")
		} else {
			filter["$or"] = clause
		}
	}

	return filter
}

// StatsMatch is the $match stage for the statistics pipeline: the same
// access scope as lists, always excluding archived projects.
func StatsMatch(userID primitive.ObjectID, role string) bson.M {
	match := bson.M{"is_archived": false}
	if role != models.RoleAdmin {
		match["$or"] = bson.A{
			bson.M{"created_by": userID},
			bson.M{"assignees.user_id": userID},
		}
	}
	return match
}

// sortFields maps API sort keys to stored field names.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"dueDate":   "due_date",
	"startDate": "start_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
	"progress":  "progress",
}

// Sort translates sortBy/sortOrder query params into a Mongo sort.
// Unknown fields fall back to newest-first creation order.
func Sort(sortBy, sortOrder string) bson.D {
	field, ok := sortFields[sortBy]
	if !ok {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	dir := 1
	if sortOrder == "desc" {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}}
}

// regexEscape neutralizes regex metacharacters in user-supplied search
// text so it matches literally.
func regexEscape(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if b := s[i]; b < 0x80 {
			for j := 0; j < len(meta); j++ {
				if b == meta[j] {
					out = append(out, '\\')
					break
				}
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}
