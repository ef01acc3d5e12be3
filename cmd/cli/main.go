package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dayledger-cli",
		Short: "DayLedger CLI tool",
		Long:  `A command line interface for interacting with the DayLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the DayLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Journal commands
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Journal operations",
	}

	var accountID, date string

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print one day's journal",
		Run: func(cmd *cobra.Command, args []string) {
			getJournal(accountID, date)
		},
	}
	getCmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	getCmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")

	journalCmd.AddCommand(getCmd)
	rootCmd.AddCommand(journalCmd)

	// Attendance commands
	attendanceCmd := &cobra.Command{
		Use:   "attendance",
		Short: "Attendance operations",
	}

	var site, identity string

	toggleCmd := &cobra.Command{
		Use:   "toggle",
		Short: "Toggle manual attendance for a (site, identity, date)",
		Run: func(cmd *cobra.Command, args []string) {
			toggleAttendance(accountID, site, identity, date)
		},
	}
	toggleCmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	toggleCmd.Flags().StringVar(&site, "site", "", "Site name")
	toggleCmd.Flags().StringVar(&identity, "identity", "", "Identity name")
	toggleCmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print attendance stats for a (site, identity)",
		Run: func(cmd *cobra.Command, args []string) {
			attendanceStats(accountID, site, identity)
		},
	}
	statsCmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	statsCmd.Flags().StringVar(&site, "site", "", "Site name")
	statsCmd.Flags().StringVar(&identity, "identity", "", "Identity name")

	attendanceCmd.AddCommand(toggleCmd)
	attendanceCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(attendanceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJournal(accountID, date string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/journal?account_id=" + accountID + "&date=" + date)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		Entries []struct {
			ID            string `json:"id"`
			Order         int    `json:"order"`
			Annotation    string `json:"annotation"`
			CarriedAmount string `json:"carried_amount"`
			TotalCharge   string `json:"total_charge"`
			Margin        string `json:"margin"`
		} `json:"entries"`
		MarginSum string `json:"margin_sum"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, e := range result.Entries {
		fmt.Printf("#%d %s carried=%s charge=%s margin=%s %s\n",
			e.Order, e.ID, e.CarriedAmount, e.TotalCharge, e.Margin, e.Annotation)
	}
	fmt.Printf("Margin sum: %s\n", result.MarginSum)
}

func toggleAttendance(accountID, site, identity, date string) {
	payload, _ := json.Marshal(map[string]string{
		"account_id": accountID,
		"site":       site,
		"identity":   identity,
		"date":       date,
	})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/attendance/toggle", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Toggle FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		Action          string `json:"action"`
		ConsecutiveDays int    `json:"consecutive_days"`
		TotalDays       int    `json:"total_days"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Attendance %s\nConsecutive days: %d\nTotal days: %d\n",
		result.Action, result.ConsecutiveDays, result.TotalDays)
}

func attendanceStats(accountID, site, identity string) {
	payload, _ := json.Marshal(map[string]any{
		"account_id": accountID,
		"pairs": []map[string]string{
			{"site": site, "identity": identity},
		},
	})

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+"/api/v1/attendance/stats", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Stats FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result struct {
		Results []struct {
			Site            string `json:"site"`
			Identity        string `json:"identity"`
			ConsecutiveDays int    `json:"consecutive_days"`
			TotalDays       int    `json:"total_days"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, r := range result.Results {
		fmt.Printf("%s/%s: consecutive=%d total=%d\n",
			r.Site, r.Identity, r.ConsecutiveDays, r.TotalDays)
	}
}
