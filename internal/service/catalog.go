package service

import "donation-tracker/internal/domain"

var rewards = []domain.Reward{
	{ID: 1, Title: "First Steps", Description: "Raise your first $50", Target: 50, Icon: "🌱", Category: "Beginner"},
	{ID: 2, Title: "Bronze Supporter", Description: "Raise $100 in donations", Target: 100, Icon: "🥉", Category: "Bronze"},
	{ID: 3, Title: "Community Builder", Description: "Get 5 referrals", Target: 5, Icon: "👥", Category: "Social", Type: domain.RewardReferrals},
	{ID: 4, Title: "Silver Champion", Description: "Raise $500 in donations", Target: 500, Icon: "🥈", Category: "Silver"},
	{ID: 5, Title: "Network Master", Description: "Get 10 referrals", Target: 10, Icon: "🌐", Category: "Social", Type: domain.RewardReferrals},
	{ID: 6, Title: "Gold Ambassador", Description: "Raise $1000 in donations", Target: 1000, Icon: "🥇", Category: "Gold"},
	{ID: 7, Title: "Super Connector", Description: "Get 20 referrals", Target: 20, Icon: "⭐", Category: "Social", Type: domain.RewardReferrals},
	{ID: 8, Title: "Platinum Leader", Description: "Raise $2500 in donations", Target: 2500, Icon: "💎", Category: "Platinum"},
	{ID: 9, Title: "Influence Master", Description: "Get 30 referrals", Target: 30, Icon: "🚀", Category: "Social", Type: domain.RewardReferrals},
	{ID: 10, Title: "Diamond Elite", Description: "Raise $5000 in donations", Target: 5000, Icon: "💍", Category: "Diamond"},
}

func amount(v float64) *float64 { return &v }

var recentActivities = []domain.Activity{
	{ID: 1, Type: domain.ActivityDonation, User: "Sarah Davis", Amount: amount(150.00), Timestamp: "2025-01-08T14:30:00Z", Description: "Corporate sponsorship secured"},
	{ID: 2, Type: domain.ActivityReferral, User: "Alex Thompson", ReferralName: "Jennifer Wilson", Timestamp: "2025-01-08T13:15:00Z", Description: "New volunteer referred"},
	{ID: 3, Type: domain.ActivityDonation, User: "Lisa Anderson", Amount: amount(75.50), Timestamp: "2025-01-08T12:45:00Z", Description: "Community fundraiser event"},
	{ID: 4, Type: domain.ActivityAchievement, User: "Emma Garcia", Achievement: "Gold Ambassador", Timestamp: "2025-01-08T11:20:00Z", Description: "Reached $1000 milestone"},
	{ID: 5, Type: domain.ActivityDonation, User: "Ryan Lee", Amount: amount(200.00), Timestamp: "2025-01-08T10:30:00Z", Description: "Monthly donor program"},
	{ID: 6, Type: domain.ActivityReferral, User: "Alice Johnson", ReferralName: "Michael Chen", Timestamp: "2025-01-08T09:15:00Z", Description: "Professional network referral"},
	{ID: 7, Type: domain.ActivityDonation, User: "Chris Taylor", Amount: amount(125.25), Timestamp: "2025-01-08T08:45:00Z", Description: "Social media campaign success"},
	{ID: 8, Type: domain.ActivityAchievement, User: "David Martinez", Achievement: "Silver Champion", Timestamp: "2025-01-07T16:30:00Z", Description: "Reached $500 milestone"},
}

// Rewards returns the achievement catalog, ordered by id.
func Rewards() []domain.Reward {
	out := make([]domain.Reward, len(rewards))
	copy(out, rewards)
	return out
}

// RecentActivities returns the activity feed, newest first.
func RecentActivities() []domain.Activity {
	out := make([]domain.Activity, len(recentActivities))
	copy(out, recentActivities)
	for i := range out {
		if out[i].Amount != nil {
			out[i].Amount = amount(*out[i].Amount)
		}
	}
	return out
}
