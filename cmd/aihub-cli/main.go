// Command aihub-cli is a terminal client for the hub's HTTP API: register,
// login (with an optional TOTP second factor), manage threads, and dispatch
// a message to several providers at once.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var baseURL = "http://localhost:8080/api"

var (
	authToken    string
	lastThreadID uint
	reader       = bufio.NewReader(os.Stdin)
	client       = &http.Client{Timeout: 120 * time.Second}
)

func main() {
	if v := os.Getenv("AIHUB_URL"); v != "" {
		baseURL = strings.TrimRight(v, "/") + "/api"
	}
	fmt.Println("Welcome to AI Hub CLI")
	for {
		if authToken == "" {
			printAuthMenu()
		} else {
			printMainMenu()
		}
	}
}

func printAuthMenu() {
	fmt.Println("\n=== Auth Menu ===")
	fmt.Println("1. Login")
	fmt.Println("2. Register")
	fmt.Println("3. Exit")
	fmt.Print("> ")

	switch readChoice() {
	case "1":
		handleLogin()
	case "2":
		handleRegister()
	case "3":
		fmt.Println("Goodbye!")
		os.Exit(0)
	default:
		fmt.Println("Invalid choice")
	}
}

func printMainMenu() {
	fmt.Println("\n=== Main Menu ===")
	fmt.Println("1. Start New Thread")
	if lastThreadID != 0 {
		fmt.Printf("2. Resume Thread (#%d)\n", lastThreadID)
	} else {
		fmt.Println("2. Resume Thread (no recent thread)")
	}
	fmt.Println("3. View History")
	fmt.Println("4. List Providers")
	fmt.Println("5. Logout")
	fmt.Println("6. Exit")
	fmt.Print("> ")

	switch readChoice() {
	case "1":
		handleNewThread()
	case "2":
		if lastThreadID != 0 {
			enterChatLoop(lastThreadID)
		} else {
			fmt.Println("No recent thread to resume. Please start a new one.")
		}
	case "3":
		handleHistory()
	case "4":
		handleProviders()
	case "5":
		authToken = ""
		lastThreadID = 0
		fmt.Println("Logged out")
	case "6":
		fmt.Println("Goodbye!")
		os.Exit(0)
	default:
		fmt.Println("Invalid choice")
	}
}

func readChoice() string {
	choice, err := reader.ReadString('\n')
	if err != nil {
		os.Exit(0)
	}
	return strings.TrimSpace(choice)
}

func prompt(label string) string {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil {
		os.Exit(0)
	}
	return strings.TrimSpace(input)
}

func handleRegister() {
	data := map[string]string{
		"username": prompt("Username: "),
		"email":    prompt("Email: "),
		"password": prompt("Password: "),
	}
	jsonData, _ := json.Marshal(data)

	resp, err := client.Post(baseURL+"/auth/register", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Registration failed: %s\n", string(body))
		return
	}
	fmt.Println("Registration successful! Please login.")
}

func handleLogin() {
	data := map[string]string{
		"username": prompt("Username: "),
		"password": prompt("Password: "),
	}

	for {
		jsonData, _ := json.Marshal(data)
		resp, err := client.Post(baseURL+"/auth/login", "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		var result struct {
			AccessToken string `json:"access_token"`
			MFARequired bool   `json:"mfa_required"`
			Error       string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()

		if result.MFARequired && data["otp_code"] == "" {
			data["otp_code"] = prompt("MFA code: ")
			continue
		}
		if resp.StatusCode != http.StatusOK || result.AccessToken == "" {
			fmt.Printf("Login failed: %s\n", result.Error)
			return
		}
		authToken = result.AccessToken
		fmt.Println("Login successful!")
		return
	}
}

func handleNewThread() {
	title := prompt("Thread Title (optional): ")

	threadID, err := createThread(title)
	if err != nil {
		fmt.Printf("Failed to create thread: %v\n", err)
		return
	}
	fmt.Printf("Thread created: #%d\n", threadID)
	lastThreadID = threadID
	enterChatLoop(threadID)
}

func enterChatLoop(threadID uint) {
	fmt.Println("Type 'exit' to quit chat. Comma-separate providers, or leave blank for all.")
	providers := splitProviders(prompt("Providers: "))
	for {
		msg := prompt("You: ")
		if msg == "exit" {
			break
		}
		if msg == "" {
			continue
		}
		sendTurn(threadID, msg, providers)
	}
}

func splitProviders(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func createThread(title string) (uint, error) {
	jsonData, _ := json.Marshal(map[string]string{"title": title})

	resp, err := doAuthed("POST", baseURL+"/threads", jsonData)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		ID uint `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

func sendTurn(threadID uint, message string, providers []string) {
	payload := map[string]any{
		"thread_id": threadID,
		"content":   message,
	}
	if len(providers) > 0 {
		payload["providers"] = providers
	}
	jsonData, _ := json.Marshal(payload)

	resp, err := doAuthed("POST", baseURL+"/chat", jsonData)
	if err != nil {
		fmt.Printf("Error sending message: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Dispatch failed: %s\n", string(body))
		return
	}

	var result struct {
		Outcomes []struct {
			Provider  string  `json:"provider"`
			Content   string  `json:"content"`
			Cost      float64 `json:"cost"`
			CostKnown bool    `json:"cost_known"`
			Error     *struct {
				Kind   string `json:"kind"`
				Detail string `json:"detail"`
			} `json:"error"`
		} `json:"outcomes"`
		TurnCost   float64 `json:"turn_cost"`
		ThreadCost float64 `json:"thread_cost"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return
	}

	for _, o := range result.Outcomes {
		if o.Error != nil {
			fmt.Printf("[%s] failed (%s): %s\n", o.Provider, o.Error.Kind, o.Error.Detail)
			continue
		}
		fmt.Println(o.Content)
		if o.CostKnown {
			fmt.Printf("  cost: $%.6f\n", o.Cost)
		}
	}
	fmt.Printf("Turn cost: $%.6f, thread total: $%.6f\n", result.TurnCost, result.ThreadCost)
}

func handleHistory() {
	threadID := lastThreadID
	if s := prompt(fmt.Sprintf("Thread ID (default %d): ", threadID)); s != "" {
		fmt.Sscanf(s, "%d", &threadID)
	}
	if threadID == 0 {
		fmt.Println("Thread ID is required")
		return
	}

	resp, err := doAuthed("GET", fmt.Sprintf("%s/threads/%d/messages", baseURL, threadID), nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Println("Failed to retrieve history")
		return
	}

	var result struct {
		Messages []struct {
			Role      string    `json:"role"`
			Content   string    `json:"content"`
			CreatedAt time.Time `json:"created_at"`
		} `json:"messages"`
	}
	json.NewDecoder(resp.Body).Decode(&result)

	for _, msg := range result.Messages {
		fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Format("15:04:05"), msg.Role, msg.Content)
	}
}

func handleProviders() {
	resp, err := doAuthed("GET", baseURL+"/providers", nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result struct {
		Providers []string `json:"providers"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	fmt.Printf("Enabled providers: %s\n", strings.Join(result.Providers, ", "))
}

func doAuthed(method, url string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewBuffer(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return client.Do(req)
}
