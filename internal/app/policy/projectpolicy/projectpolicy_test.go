package projectpolicy_test

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/teamhub/internal/app/policy/projectpolicy"
	"github.com/dalemusser/teamhub/internal/domain/models"
)

func TestEvaluate(t *testing.T) {
	creator := primitive.NewObjectID()
	assignee := primitive.NewObjectID()
	outsider := primitive.NewObjectID()

	project := &models.Project{
		CreatedBy: creator,
		Assignees: []models.Assignee{{UserID: assignee, Name: "Dev"}},
	}

	tests := []struct {
		name   string
		userID primitive.ObjectID
		role   string
		want   projectpolicy.AccessLevel
	}{
		{"admin always admin", outsider, models.RoleAdmin, projectpolicy.LevelAdmin},
		{"spoc is moderator", outsider, models.RoleSPOC, projectpolicy.LevelModerator},
		{"creator is member", creator, models.RoleMember, projectpolicy.LevelMember},
		{"assignee is member", assignee, models.RoleMember, projectpolicy.LevelMember},
		{"unrelated member is none", outsider, models.RoleMember, projectpolicy.LevelNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := projectpolicy.Evaluate(tt.userID, tt.role, project); got != tt.want {
				t.Errorf("Evaluate = %q, want %q", got, tt.want)
			}
		})
	}

	if got := projectpolicy.Evaluate(outsider, models.RoleMember, nil); got != projectpolicy.LevelNone {
		t.Errorf("Evaluate(nil project) = %q, want none", got)
	}
	if got := projectpolicy.Evaluate(outsider, models.RoleAdmin, nil); got != projectpolicy.LevelAdmin {
		t.Errorf("Evaluate(nil project, admin) = %q, want admin", got)
	}
}

func TestPermissions(t *testing.T) {
	if !projectpolicy.CanCreate(models.RoleAdmin) || !projectpolicy.CanCreate(models.RoleSPOC) {
		t.Error("admin and spoc should be able to create projects")
	}
	if projectpolicy.CanCreate(models.RoleMember) {
		t.Error("member should not be able to create projects")
	}

	if !projectpolicy.CanUpdate(projectpolicy.LevelAdmin) || !projectpolicy.CanUpdate(projectpolicy.LevelModerator) {
		t.Error("admin and moderator levels should allow updates")
	}
	if projectpolicy.CanUpdate(projectpolicy.LevelMember) {
		t.Error("member level should not allow updates")
	}

	if !projectpolicy.CanDelete(models.RoleAdmin) {
		t.Error("admin should be able to delete")
	}
	if projectpolicy.CanDelete(models.RoleSPOC) {
		t.Error("spoc should not be able to delete")
	}

	if !projectpolicy.CanComment(projectpolicy.LevelMember) {
		t.Error("member level should allow comments")
	}
	if projectpolicy.CanComment(projectpolicy.LevelNone) {
		t.Error("none level should not allow comments")
	}
	if projectpolicy.CanRead(projectpolicy.LevelNone) {
		t.Error("none level should not allow reads")
	}
}

func TestBuildListFilter_AdminSeesEverything(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	filter := projectpolicy.BuildListFilter(userID, models.RoleAdmin, projectpolicy.ListQuery{}, now)

	want := bson.M{"is_archived": false}
	if !reflect.DeepEqual(filter, want) {
		t.Errorf("filter = %#v, want %#v", filter, want)
	}
}

func TestBuildListFilter_NonAdminScoped(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	filter := projectpolicy.BuildListFilter(userID, models.RoleMember, projectpolicy.ListQuery{}, now)

	if filter["is_archived"] != false {
		t.Error("expected is_archived: false")
	}
	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected two-branch $or scope, got %#v", filter["$or"])
	}
	if !reflect.DeepEqual(or[0], bson.M{"created_by": userID}) {
		t.Errorf("first branch = %#v", or[0])
	}
	if !reflect.DeepEqual(or[1], bson.M{"assignees.user_id": userID}) {
		t.Errorf("second branch = %#v", or[1])
	}
}

func TestBuildListFilter_StatusAndPriority(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	filter := projectpolicy.BuildListFilter(userID, models.RoleAdmin, projectpolicy.ListQuery{
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
	}, now)

	if filter["status"] != models.StatusInProgress {
		t.Errorf("status = %#v", filter["status"])
	}
	if filter["priority"] != models.PriorityHigh {
		t.Errorf("priority = %#v", filter["priority"])
	}
}

func TestBuildListFilter_OverdueIsDerived(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	filter := projectpolicy.BuildListFilter(userID, models.RoleAdmin, projectpolicy.ListQuery{
		Status: projectpolicy.StatusOverdue,
	}, now)

	if !reflect.DeepEqual(filter["status"], bson.M{"$ne": models.StatusDone}) {
		t.Errorf("status clause = %#v", filter["status"])
	}
	if !reflect.DeepEqual(filter["due_date"], bson.M{"$lt": now}) {
		t.Errorf("due_date clause = %#v", filter["due_date"])
	}
}

func TestBuildListFilter_AssigneeFilter(t *testing.T) {
	userID := primitive.NewObjectID()
	assignee := primitive.NewObjectID()
	now := time.Now()

	filter := projectpolicy.BuildListFilter(userID, models.RoleAdmin, projectpolicy.ListQuery{
		Assignee: assignee.Hex(),
	}, now)
	if filter["assignees.user_id"] != assignee {
		t.Errorf("assignee clause = %#v", filter["assignees.user_id"])
	}

	// A malformed ID is ignored rather than matching nothing by accident.
	filter = projectpolicy.BuildListFilter(userID, models.RoleAdmin, projectpolicy.ListQuery{
		Assignee: "garbage",
	}, now)
	if _, ok := filter["assignees.user_id"]; ok {
		t.Error("malformed assignee ID should be dropped")
	}
}

func TestBuildListFilter_SearchForAdmin(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	filter := projectpolicy.BuildListFilter(userID, models.RoleAdmin, projectpolicy.ListQuery{
		Search: "deploy",
	}, now)

	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected title/description $or, got %#v", filter["$or"])
	}
	title := or[0].(bson.M)["title"].(bson.M)
	re := title["$regex"].(primitive.Regex)
	if re.Pattern != "deploy" || re.Options != "i" {
		t.Errorf("regex = %#v", re)
	}
}

func TestBuildListFilter_SearchIntersectsScope(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	filter := projectpolicy.BuildListFilter(userID, models.RoleMember, projectpolicy.ListQuery{
		Search: "deploy",
	}, now)

	// The access scope and the search must both apply, so they move
	// under $and instead of one $or clobbering the other.
	if _, ok := filter["$or"]; ok {
		t.Fatalf("expected no top-level $or, got %#v", filter["$or"])
	}
	and, ok := filter["$and"].(bson.A)
	if !ok || len(and) != 2 {
		t.Fatalf("expected two-clause $and, got %#v", filter["$and"])
	}
	scope := and[0].(bson.M)["$or"].(bson.A)
	if !reflect.DeepEqual(scope[0], bson.M{"created_by": userID}) {
		t.Errorf("scope = %#v", scope)
	}
	search := and[1].(bson.M)["$or"].(bson.A)
	if _, ok := search[0].(bson.M)["title"]; !ok {
		t.Errorf("search = %#v", search)
	}
}

func TestBuildListFilter_SearchEscapesRegex(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	filter := projectpolicy.BuildListFilter(userID, models.RoleAdmin, projectpolicy.ListQuery{
		Search: "a.b(c)",
	}, now)

	or := filter["$or"].(bson.A)
	re := or[0].(bson.M)["title"].(bson.M)["$regex"].(primitive.Regex)
	if re.Pattern != `a\.b\(c\)` {
		t.Errorf("escaped pattern = %q", re.Pattern)
	}
}

func TestBuildListFilter_IncludeArchived(t *testing.T) {
	userID := primitive.NewObjectID()
	filter := projectpolicy.BuildListFilter(userID, models.RoleAdmin, projectpolicy.ListQuery{
		IncludeArchived: true,
	}, time.Now())
	if _, ok := filter["is_archived"]; ok {
		t.Error("IncludeArchived should drop the is_archived clause")
	}
}

func TestStatsMatch(t *testing.T) {
	userID := primitive.NewObjectID()

	admin := projectpolicy.StatsMatch(userID, models.RoleAdmin)
	if !reflect.DeepEqual(admin, bson.M{"is_archived": false}) {
		t.Errorf("admin match = %#v", admin)
	}

	member := projectpolicy.StatsMatch(userID, models.RoleMember)
	if _, ok := member["$or"]; !ok {
		t.Error("member match should be access-scoped")
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		sortBy, sortOrder string
		want              bson.D
	}{
		{"", "", bson.D{{Key: "created_at", Value: -1}}},
		{"bogus", "asc", bson.D{{Key: "created_at", Value: -1}}},
		{"dueDate", "asc", bson.D{{Key: "due_date", Value: 1}}},
		{"dueDate", "desc", bson.D{{Key: "due_date", Value: -1}}},
		{"title", "", bson.D{{Key: "title", Value: 1}}},
	}
	for _, tt := range tests {
		if got := projectpolicy.Sort(tt.sortBy, tt.sortOrder); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Sort(%q, %q) = %#v, want %#v", tt.sortBy, tt.sortOrder, got, tt.want)
		}
	}
}
