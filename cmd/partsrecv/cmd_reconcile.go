package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"partsrecv/internal/database"
	"partsrecv/internal/feed"
	"partsrecv/internal/ledger"
	"partsrecv/internal/reconcile"
	"partsrecv/internal/report"
	"partsrecv/internal/services"
)

var (
	reconcilePO          uint
	reconcileScope       string
	reconcileEML         string
	reconcileAttach      string
	reconcileCompletedBy string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare stored scans against an imported purchase order",
	Long: `Joins the shared scan store against the shipped lines of a purchase
order and lists shorts, overages and matches. With --eml the discrepancy
email draft is written out, ready to open in Outlook.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().UintVar(&reconcilePO, "po", 0, "purchase order id (0 = all)")
	reconcileCmd.Flags().StringVar(&reconcileScope, "scope", reconcile.ScopeAll, "shipment number or \"all\"")
	reconcileCmd.Flags().StringVar(&reconcileEML, "eml", "", "write the discrepancy email draft to this file")
	reconcileCmd.Flags().StringVar(&reconcileAttach, "attach", "", "PDF form to attach to the draft")
	reconcileCmd.Flags().StringVar(&reconcileCompletedBy, "completed-by", "", "name on the form")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	recon := services.NewReconcileService(db)
	rep, err := recon.Run(reconcilePO, reconcileScope)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tPART\tSO\tEXPECTED\tSCANNED\tDIFF")
	for _, r := range rep.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%+d\n",
			r.Status, r.PartNumber, r.ShippingOrder, r.ExpectedQty, r.ScannedQty, r.QtyDiff)
	}
	tw.Flush()
	fmt.Printf("\n%d short, %d overage, %d match (scope %s)\n",
		rep.Summary.Shorts, rep.Summary.Overages, rep.Summary.Matches, rep.Scope)

	if reconcileEML == "" {
		return nil
	}
	return writeDraft(db, rep)
}

// writeDraft composes the discrepancy email draft from the reconciliation
// run and the flagged entries in the scan store.
func writeDraft(db *gorm.DB, rep *services.Report) error {
	entries, _, err := services.NewScanStore(db).FetchScans()
	if err != nil {
		return err
	}
	l := ledger.New()
	l.Replace(entries)

	form := &report.Form{
		Cfg:          cfg,
		Shorts:       reconcile.Shorts(rep.Results),
		DamageClaims: l.DamageClaimEntries(),
		WrongDealer:  l.WrongDealerEntries(),
		CompletedBy:  reconcileCompletedBy,
		Date:         time.Now().Format("2006-01-02"),
	}
	if reconcilePO != 0 {
		po, err := services.NewFeedService(db).GetPurchaseOrder(reconcilePO)
		if err != nil {
			return err
		}
		form.PO = &feed.POInfo{PBSPO: po.PBSPO, GMControl: po.GMControl, Date: po.DateStr}
	}

	var pdf []byte
	pdfName := "woodstock_form.pdf"
	if reconcileAttach != "" {
		pdf, err = os.ReadFile(reconcileAttach)
		if err != nil {
			return fmt.Errorf("failed to read attachment: %w", err)
		}
		pdfName = filepath.Base(reconcileAttach)
	}

	eml := report.BuildEML(report.EMLInput{
		To:          cfg.WoodstockEmail,
		CC:          form.CCList(),
		Subject:     form.Subject(),
		Body:        form.Body(),
		PDF:         pdf,
		PDFFilename: pdfName,
	})
	if err := os.WriteFile(reconcileEML, eml, 0o644); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	fmt.Printf("draft written to %s (subject: %s)\n", reconcileEML, form.Subject())
	return nil
}
