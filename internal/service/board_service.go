package service

import (
	"context"
	"math"
	"sort"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/repository"
)

// UnknownDepartment groups users stored without a department.
const UnknownDepartment = "Unknown"

// LeaderboardEntry is a sanitized user with its 1-based rank.
type LeaderboardEntry struct {
	User domain.User
	Rank int
}

type DepartmentStats struct {
	Count     int
	Donations float64
}

// Stats is the rollup served by the statistics view.
type Stats struct {
	TotalUsers      int
	TotalDonations  float64
	TotalReferrals  int
	AverageDonation float64
	Departments     map[string]DepartmentStats
}

// BoardService serves the read-only aggregation views.
type BoardService interface {
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	Stats(ctx context.Context) (Stats, error)
}

type boardService struct {
	users repository.UserRepository
}

func NewBoardService(users repository.UserRepository) BoardService {
	return &boardService{users: users}
}

func (s *boardService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboard(users), nil
}

func (s *boardService) Stats(ctx context.Context) (Stats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return BuildStats(users), nil
}

// BuildLeaderboard orders users by donations raised, highest first. Users
// with equal totals keep their input order.
func BuildLeaderboard(users []domain.User) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(users))
	for i := range users {
		entries[i] = LeaderboardEntry{User: *sanitizeUser(&users[i])}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].User.DonationsRaised > entries[j].User.DonationsRaised
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// BuildStats rolls users up in a single pass.
func BuildStats(users []domain.User) Stats {
	stats := Stats{
		TotalUsers:  len(users),
		Departments: make(map[string]DepartmentStats),
	}

	var total float64
	for _, u := range users {
		d := donations(u)
		total += d
		stats.TotalReferrals += u.TotalReferrals

		name := u.Department
		if name == "" {
			name = UnknownDepartment
		}
		dept := stats.Departments[name]
		dept.Count++
		dept.Donations += d
		stats.Departments[name] = dept
	}

	for name, dept := range stats.Departments {
		dept.Donations = round2(dept.Donations)
		stats.Departments[name] = dept
	}

	stats.TotalDonations = round2(total)
	if stats.TotalUsers > 0 {
		stats.AverageDonation = round2(total / float64(stats.TotalUsers))
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
