package domain

type ActivityType string

const (
	ActivityDonation    ActivityType = "donation"
	ActivityReferral    ActivityType = "referral"
	ActivityAchievement ActivityType = "achievement"
	ActivitySignup      ActivityType = "signup"
)

// Activity is one entry of the recent-activity feed.
type Activity struct {
	ID           int64
	Type         ActivityType
	User         string
	Amount       *float64
	ReferralName string
	Achievement  string
	Timestamp    string
	Description  string
}

type RewardType string

// RewardReferrals marks rewards measured in referrals; rewards without a
// type are measured in donations.
const RewardReferrals RewardType = "referrals"

// Reward is an achievement threshold shown to fundraisers.
type Reward struct {
	ID          int
	Title       string
	Description string
	Target      float64
	Icon        string
	Category    string
	Type        RewardType
}
