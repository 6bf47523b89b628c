package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"donation-tracker/internal/domain"
	"donation-tracker/internal/service"
)

// UserResponse is the outward projection of a user. It has no password field.
type UserResponse struct {
	Email           string  `json:"email"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	DonationsRaised float64 `json:"donationsRaised"`
	ReferralCode    string  `json:"referralCode"`
	TotalReferrals  int     `json:"totalReferrals,omitempty"`
	Department      string  `json:"department,omitempty"`
	JoinDate        string  `json:"joinDate,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

type LeaderboardEntryResponse struct {
	UserResponse
	Rank int `json:"rank"`
}

type DonationsResponse struct {
	DonationsRaised float64 `json:"donationsRaised"`
	ReferralCode    string  `json:"referralCode"`
	Email           string  `json:"email"`
}

type DepartmentResponse struct {
	Count     int     `json:"count"`
	Donations float64 `json:"donations"`
}

type StatsResponse struct {
	TotalUsers      int                           `json:"totalUsers"`
	TotalDonations  float64                       `json:"totalDonations"`
	TotalReferrals  int                           `json:"totalReferrals"`
	AverageDonation float64                       `json:"averageDonation"`
	Departments     map[string]DepartmentResponse `json:"departments"`
}

type RewardResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Target      float64 `json:"target"`
	Icon        string  `json:"icon"`
	Category    string  `json:"category"`
	Type        string  `json:"type,omitempty"`
}

type ActivityResponse struct {
	ID           int64    `json:"id"`
	Type         string   `json:"type"`
	User         string   `json:"user"`
	Amount       *float64 `json:"amount,omitempty"`
	ReferralName string   `json:"referralName,omitempty"`
	Achievement  string   `json:"achievement,omitempty"`
	Timestamp    string   `json:"timestamp"`
	Description  string   `json:"description"`
}

// amountValue accepts a JSON number or a numeric string.
type amountValue float64

func (a *amountValue) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = amountValue(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("amount must be a number")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}
	*a = amountValue(f)
	return nil
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		DonationsRaised: u.DonationsRaised,
		ReferralCode:    u.ReferralCode,
		TotalReferrals:  u.TotalReferrals,
		Department:      u.Department,
		JoinDate:        u.JoinDate,
		CreatedAt:       u.CreatedAt,
	}
}

func statsToResponse(s service.Stats) StatsResponse {
	resp := StatsResponse{
		TotalUsers:      s.TotalUsers,
		TotalDonations:  s.TotalDonations,
		TotalReferrals:  s.TotalReferrals,
		AverageDonation: s.AverageDonation,
		Departments:     make(map[string]DepartmentResponse, len(s.Departments)),
	}
	for name, d := range s.Departments {
		resp.Departments[name] = DepartmentResponse{Count: d.Count, Donations: d.Donations}
	}
	return resp
}

func rewardToResponse(r domain.Reward) RewardResponse {
	return RewardResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Target:      r.Target,
		Icon:        r.Icon,
		Category:    r.Category,
		Type:        string(r.Type),
	}
}

func activityToResponse(a domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:           a.ID,
		Type:         string(a.Type),
		User:         a.User,
		Amount:       a.Amount,
		ReferralName: a.ReferralName,
		Achievement:  a.Achievement,
		Timestamp:    a.Timestamp,
		Description:  a.Description,
	}
}
