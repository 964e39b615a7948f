package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partsrecv/internal/ledger"
	"partsrecv/internal/replication"
	"partsrecv/internal/session"
)

var scanPairingCode string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run an interactive scanner session",
	Long: `Reads barcodes from stdin, one per line, exactly as a wedge scanner
types them. Each scan is classified, decoded and folded into the ledger,
which replicates to the station server in the background.

Commands: /stats  /pending  /cancel  /clear  /quit`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanPairingCode, "code", "", "station pairing code")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	sess := session.New(cfg)
	client := replication.New(cfg, sess.Ledger(), logger)

	if scanPairingCode != "" {
		token, err := pair(scanPairingCode)
		if err != nil {
			return err
		}
		client.SetToken(token)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	fmt.Printf("Scanning for dealer %s (%s). Ctrl-D or /quit to finish.\n",
		cfg.DealerCode, cfg.DealerName)

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if done := command(line, sess, client); done {
				break
			}
			continue
		}

		var fb session.Feedback
		client.WithLedger(func(l *ledger.Ledger) bool {
			fb = sess.ProcessScan(line)
			return fb.Kind == session.FeedbackAdded || fb.Kind == session.FeedbackQuantity
		})
		fmt.Println(fb.Message)
	}

	cancel()
	if err := client.Flush(context.Background()); err != nil {
		logger.Warn("final sync failed, scans remain local only", zap.Error(err))
	}
	printStats(sess)
	return nil
}

func command(line string, sess *session.Session, client *replication.Client) bool {
	switch line {
	case "/quit", "/done":
		return true
	case "/stats":
		printStats(sess)
	case "/pending":
		if p := sess.Pending(); p != nil {
			fmt.Printf("pending %s: %s\n", p.Kind, p.Value)
		} else {
			fmt.Println("no pending fragment")
		}
	case "/cancel":
		sess.CancelPending()
		fmt.Println("pending fragment dropped")
	case "/clear":
		client.WithLedger(func(l *ledger.Ledger) bool {
			l.Clear()
			return true
		})
		fmt.Println("ledger cleared")
	default:
		fmt.Println("unknown command")
	}
	return false
}

func printStats(sess *session.Session) {
	st := sess.Ledger().Stats()
	fmt.Printf("%d pieces, %d unique parts, %d shipping orders, %d wrong dealer, %d DIPP\n",
		st.TotalQuantity, st.UniqueCount, st.DistinctShipments, st.WrongDealerCount, st.DamageClaimCount)
}

// pair exchanges the pairing code for a session token at the station.
func pair(code string) (string, error) {
	body, _ := json.Marshal(map[string]string{"code": code, "device": hostname(), "role": "scanner"})
	resp, err := (&http.Client{Timeout: cfg.HTTPTimeout}).Post(
		cfg.SyncServerURL+"/api/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("pairing failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("pairing rejected: %s", resp.Status)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "scanner"
}
