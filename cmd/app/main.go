package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"digiassistant-client-V1.0/internal/api"
	"digiassistant-client-V1.0/internal/config"
	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/internal/service"
	"digiassistant-client-V1.0/internal/session"
	"digiassistant-client-V1.0/utilities"
)

func main() {
	printStartUpBanner()

	// A .env file can override the XML values.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	utilities.SetupLogging(cfg.Context.LogDir)

	sessionStore := session.NewStore(cfg.Client.TokenFile, utilities.GlobalEventBus)
	apiClient := api.NewClient(cfg.Client.BaseURL, sessionStore, time.Duration(cfg.Client.TimeoutSeconds)*time.Second)
	// Any 401 tears the session down globally; the chat state clears through
	// the event bus subscription below.
	apiClient.OnUnauthorized(func() {
		fmt.Println("\nVotre session a expiré, veuillez vous reconnecter.")
		sessionStore.Invalidate()
	})

	authService := service.NewAuthService(apiClient, sessionStore, utilities.GlobalEventBus)
	chatService := service.NewChatService(apiClient)
	resultsService := service.NewResultsService(apiClient)
	service.InitChatEventListeners(utilities.GlobalEventBus, chatService)

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	for !sessionStore.IsAuthenticated() {
		signIn(ctx, reader, authService)
	}
	if user, err := authService.CurrentUser(ctx); err == nil {
		greet(user)
	}

	runDiagnostic(ctx, reader, chatService, resultsService, cfg.Client.ReportDir)
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("DIGIASSISTANT", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("DIGIASSISTANT terminal client (v%s)\n\n", "1.0.0")
}

func greet(user *model.User) {
	fmt.Printf("Bonjour %s", user.Email)
	if user.CompanyName != "" {
		fmt.Printf(" (%s)", user.CompanyName)
	}
	fmt.Println()
	if user.GlobalScore != nil {
		fmt.Printf("Score de votre dernier diagnostic : %d/100\n", *user.GlobalScore)
	}
	fmt.Println()
}

func signIn(ctx context.Context, reader *bufio.Reader, authService service.AuthService) {
	choice := prompt(reader, "Se connecter (l) ou créer un compte (r) ? ")
	email := prompt(reader, "Email : ")
	password := promptPassword("Mot de passe : ")

	if strings.HasPrefix(strings.ToLower(choice), "r") {
		req := model.RegisterRequest{
			Email:       email,
			Password:    password,
			CompanyName: prompt(reader, "Entreprise : "),
			Sector:      prompt(reader, "Secteur : "),
			CompanySize: prompt(reader, "Taille (ex: 10-50) : "),
		}
		if _, err := authService.Register(ctx, req); err != nil {
			fmt.Printf("Echec de l'inscription : %v\n\n", err)
		}
		return
	}

	if _, err := authService.Login(ctx, email, password); err != nil {
		fmt.Printf("Echec de la connexion : %v\n\n", err)
	}
}

func runDiagnostic(
	ctx context.Context,
	reader *bufio.Reader,
	chatService service.ChatService,
	resultsService service.ResultsService,
	reportDir string,
) {
	for {
		if err := chatService.ResumeOrStart(ctx); err != nil {
			state := chatService.State()
			fmt.Printf("\nErreur : %s\n", state.Error)
			if !confirm(reader, "Réessayer ? (o/n) ") {
				return
			}
			continue
		}

		printHistory(chatService.State())
		chatLoop(ctx, reader, chatService)

		state := chatService.State()
		if !state.IsFinished {
			return
		}
		showResults(ctx, reader, resultsService, state.ConversationID, reportDir)

		if !confirm(reader, "Relancer un nouveau diagnostic ? (o/n) ") {
			return
		}
		chatService.Clear()
	}
}

func chatLoop(ctx context.Context, reader *bufio.Reader, chatService service.ChatService) {
	for {
		state := chatService.State()
		if state.IsFinished {
			return
		}

		answer := prompt(reader, "\nVotre réponse > ")
		if answer == "" {
			continue
		}
		if answer == "/quit" {
			return
		}

		for {
			err := chatService.SendAnswer(ctx, state.ConversationID, answer, false)
			if err == nil {
				break
			}
			fmt.Printf("Erreur : %s\n", chatService.State().Error)
			if !confirm(reader, "Réessayer ? (o/n) ") {
				return
			}
		}

		printLatest(chatService.State())
	}
}

func printHistory(state service.ChatState) {
	for _, msg := range state.History {
		printMessage(msg)
	}
}

// printLatest shows the newest AI question only; the user already sees their
// own input.
func printLatest(state service.ChatState) {
	if len(state.History) == 0 {
		return
	}
	last := state.History[len(state.History)-1]
	if last.Role == model.RoleAI {
		printMessage(last)
	}
}

func printMessage(msg model.Message) {
	switch msg.Role {
	case model.RoleAI:
		fmt.Printf("\n🤖  %s\n", msg.Content)
	default:
		if msg.Score != nil {
			fmt.Printf("👤  %s  [%d/3]\n", msg.Content, *msg.Score)
		} else {
			fmt.Printf("👤  %s\n", msg.Content)
		}
	}
}

func showResults(
	ctx context.Context,
	reader *bufio.Reader,
	resultsService service.ResultsService,
	conversationID string,
	reportDir string,
) {
	results, err := resultsService.FetchResults(ctx, conversationID)
	if err != nil {
		fmt.Printf("Impossible de charger les résultats : %v\n", err)
		return
	}

	fmt.Println("\n========== RÉSULTATS DU DIAGNOSTIC ==========")
	fmt.Printf("Score global : %d/100 (Palier %d)\n", results.GlobalScore, results.ProfileLevel)
	fmt.Println(service.ScoreMessage(results.GlobalScore))

	fmt.Println("\nScores par dimension :")
	for name, dim := range results.DimensionResults {
		fmt.Printf("  - %-28s %3.0f %%  (palier %d)\n", name, dim.ScorePercent, dim.PalierAtteint)
	}

	if len(results.DigitalGaps) > 0 {
		fmt.Println("\nDigital gaps identifiés :")
		for _, gap := range results.DigitalGaps {
			fmt.Printf("  🚨 %s\n", service.GapLabel(results, gap))
		}
	}
	if aligned := service.AlignedDimensions(results); len(aligned) > 0 {
		fmt.Printf("\nDimensions alignées sur votre palier : %s\n", strings.Join(aligned, ", "))
	}

	if confirm(reader, "\nTélécharger le rapport PDF ? (o/n) ") {
		path, err := resultsService.DownloadReport(ctx, conversationID, reportDir)
		if err != nil {
			fmt.Printf("Echec du téléchargement : %v\n", err)
		} else {
			fmt.Printf("Rapport enregistré : %s\n", path)
		}
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) string {
	fmt.Print(label)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}

func confirm(reader *bufio.Reader, label string) bool {
	answer := strings.ToLower(prompt(reader, label))
	return strings.HasPrefix(answer, "o") || strings.HasPrefix(answer, "y")
}
