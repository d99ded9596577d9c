// Package printing turns a priced quote into a stored PDF.
//
// This package contains:
//   - TemplateStore and TemplateEngine, which fill the quote HTML template
//     (external override or the embedded default) from a QuoteView
//   - LogoLoader, which inlines the company logo as a data URI
//   - PDFRenderer with chromedp, wkhtmltopdf and Gotenberg implementations
//   - PDFStorage with a local FileSystemStorage implementation
//
// Example usage:
//
//	renderer, err := NewPDFRenderer(EngineOptions{Engine: EngineChromedp}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:        html,
//	    PaperSize:   printing.PaperSizeA4,
//	    Orientation: printing.OrientationPortrait,
//	    Margins:     printing.DefaultMargins(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stored, err := storage.Store(ctx, &StoreRequest{Folio: "GPO-COT/12345", PDFData: result.PDFData})
package printing
