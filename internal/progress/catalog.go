package progress

// User action tags reported by the rest of the portal. Unknown tags are
// ignored by the reducer.
const (
	ActionApplyJob        = "apply_job"
	ActionUpdateProfile   = "update_profile"
	ActionViewScholarship = "view_scholarship"
	ActionViewCommunity   = "view_community"
	ActionSaveBookmark    = "save_bookmark"
)

// XPPerLevel is the amount of experience required per level.
const XPPerLevel = 1000

// LevelForXP derives the level for a given XP total.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// Badge describes an entry in the fixed badge catalog. Only unlock state is
// persisted; everything else lives here.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPValue     int    `json:"xp_value"`

	// Action is the user action tag that unlocks the badge. Empty for badges
	// that start unlocked.
	Action          string `json:"-"`
	DefaultUnlocked bool   `json:"-"`
}

var badgeCatalog = []Badge{
	{
		ID:              "newcomer",
		Name:            "Newcomer",
		Description:     "Joined EduSprout",
		Icon:            "sprout",
		XPValue:         0,
		DefaultUnlocked: true,
	},
	{
		ID:          "first_apply",
		Name:        "First Application",
		Description: "Applied to your first job",
		Icon:        "send",
		XPValue:     100,
		Action:      ActionApplyJob,
	},
	{
		ID:          "profile_pro",
		Name:        "Profile Pro",
		Description: "Completed your profile",
		Icon:        "user-check",
		XPValue:     150,
		Action:      ActionUpdateProfile,
	},
	{
		ID:          "scholar_scout",
		Name:        "Scholar Scout",
		Description: "Explored a scholarship",
		Icon:        "graduation-cap",
		XPValue:     120,
		Action:      ActionViewScholarship,
	},
	{
		ID:          "community_builder",
		Name:        "Community Builder",
		Description: "Visited the community",
		Icon:        "users",
		XPValue:     80,
		Action:      ActionViewCommunity,
	},
}

// Catalog returns the fixed badge catalog in display order.
func Catalog() []Badge {
	out := make([]Badge, len(badgeCatalog))
	copy(out, badgeCatalog)
	return out
}

// BadgeByID looks up a catalog badge by id.
func BadgeByID(id string) (Badge, bool) {
	for _, badge := range badgeCatalog {
		if badge.ID == id {
			return badge, true
		}
	}
	return Badge{}, false
}

// BadgeByAction maps a user action tag to the badge it unlocks.
func BadgeByAction(action string) (Badge, bool) {
	if action == "" {
		return Badge{}, false
	}
	for _, badge := range badgeCatalog {
		if badge.Action == action {
			return badge, true
		}
	}
	return Badge{}, false
}

// Quest describes an entry in the static quest catalog. Daily quests have
// their counters reset by the maintenance cleaner.
type Quest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Action      string `json:"-"`
	Goal        int    `json:"goal"`
	XPReward    int    `json:"xp_reward"`
	Daily       bool   `json:"daily"`
}

var questCatalog = []Quest{
	{
		ID:          "daily_apply",
		Name:        "Daily Applicant",
		Description: "Apply to a job today",
		Action:      ActionApplyJob,
		Goal:        1,
		XPReward:    50,
		Daily:       true,
	},
	{
		ID:          "daily_saver",
		Name:        "Collector",
		Description: "Save three listings today",
		Action:      ActionSaveBookmark,
		Goal:        3,
		XPReward:    60,
		Daily:       true,
	},
	{
		ID:          "scholarship_hunter",
		Name:        "Scholarship Hunter",
		Description: "View five scholarships",
		Action:      ActionViewScholarship,
		Goal:        5,
		XPReward:    150,
	},
}

// QuestCatalog returns the static quest catalog.
func QuestCatalog() []Quest {
	out := make([]Quest, len(questCatalog))
	copy(out, questCatalog)
	return out
}

// QuestsByAction returns the quests advanced by the supplied action tag.
func QuestsByAction(action string) []Quest {
	if action == "" {
		return nil
	}
	var out []Quest
	for _, quest := range questCatalog {
		if quest.Action == action {
			out = append(out, quest)
		}
	}
	return out
}
