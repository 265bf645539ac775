package main

import (
	"chat-live/auth"
	"chat-live/domain"
	"chat-live/domain/event"
	"chat-live/proto/live"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the tester application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type Config struct {
	ServerAddress string        `envconfig:"LIVE_SERVER_ADDR" default:"localhost:8080"`
	UserID        string        `envconfig:"LIVE_USER_ID" required:"true"`
	UserName      string        `envconfig:"LIVE_USER_NAME"`
	AuthSecret    string        `envconfig:"AUTH_SECRET" required:"true"`
	Colours       bool          `envconfig:"LIVE_COLOURS" default:"true"`
	Duration      time.Duration `envconfig:"LIVE_DURATION" default:"0s"`
}

var typeColours = map[event.Type]color.Color{
	event.KeepAliveType:          color.Gray,
	event.NewMessageType:         color.Green,
	event.MemberAddedType:        color.Cyan,
	event.MemberRemovedType:      color.Yellow,
	event.ChannelRenamedType:     color.Blue,
	event.NewInvitationType:      color.Magenta,
	event.InvitationAcceptedType: color.Magenta,
	event.UsernameChangedType:    color.Cyan,
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Tester error: %v\n", err)
	}
	os.Exit(code)
}

// run subscribes as one identity, prints every received envelope and
// summarizes counts per type when the stream ends.
func run() (int, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Duration)
		defer cancel()
	}

	token, err := auth.NewTokenIssuer(config.AuthSecret, time.Hour).
		GenerateToken(domain.Identity{ID: domain.UserID(config.UserID), Name: config.UserName})
	if err != nil {
		return exitConfig, fmt.Errorf("token error: %w", err)
	}

	conn, err := grpc.NewClient(config.ServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() { _ = conn.Close() }()

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	stream, err := live.Subscribe(ctx, conn)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}
	fmt.Printf(">>> Subscribed to %s as %s (Ctrl+C to quit)\n", config.ServerAddress, config.UserID)

	counts := make(map[event.Type]int)
	var lastID uint64
	defer func() { printSummary(counts, lastID) }()

	for {
		env, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}
		if env.ID <= lastID {
			color.Red.Printf("out of order id %d after %d\n", env.ID, lastID)
		}
		lastID = env.ID
		counts[env.Type]++
		printEnvelope(config.Colours, env)
	}
}

func printEnvelope(colours bool, env event.Envelope) {
	line := fmt.Sprintf("[%s] #%d %s %v", time.Now().Format(time.TimeOnly), env.ID, env.Type, env.Payload)
	if env.Timestamp != nil {
		line = fmt.Sprintf("[%s] #%d %s", env.Timestamp.Format(time.TimeOnly), env.ID, env.Type)
	}
	if c, ok := typeColours[env.Type]; ok && colours {
		c.Println(line)
		return
	}
	fmt.Println(line)
}

func printSummary(counts map[event.Type]int, lastID uint64) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Type", "Received"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	total := 0
	for _, t := range event.Types {
		table.Append([]string{string(t), strconv.Itoa(counts[t])})
		total += counts[t]
	}
	table.SetFooter([]string{"last id " + strconv.FormatUint(lastID, 10), strconv.Itoa(total)})
	table.Render()
}
