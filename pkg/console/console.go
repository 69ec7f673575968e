package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface.
type Console struct {
	out         io.Writer
	interactive bool
}

// NewConsole cria um novo Console escrevendo em stdout.
func NewConsole() *Console {
	return NewConsoleWithWriter(os.Stdout, true)
}

// NewConsoleWithWriter creates a console writing to w. Spinners are only
// shown when interactive is set.
func NewConsoleWithWriter(w io.Writer, interactive bool) *Console {
	return &Console{out: w, interactive: interactive}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	fmt.Fprint(c.out, pterm.Info.Sprintfln(format, a...))
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	fmt.Fprint(c.out, pterm.Warning.Sprintfln(format, a...))
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	fmt.Fprint(c.out, pterm.Error.Sprintfln(format, a...))
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	fmt.Fprint(c.out, pterm.Success.Sprintfln(format, a...))
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	if !c.interactive {
		return &statusHandle{}
	}
	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string, com as colunas alinhadas à esquerda.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithLeftAlignment().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayTrendBars exibe gráficos de barras com o custo do cliente por período.
func (c *Console) DisplayTrendBars(title string, periodCosts []types.PeriodCost) {
	maxCost := 0.0
	for _, cost := range periodCosts {
		if cost.Cost > maxCost {
			maxCost = cost.Cost
		}
	}

	if maxCost == 0 {
		c.LogWarning("All costs are $0.00 for this period")
		return
	}

	tableData := pterm.TableData{
		{"Period", "Cost", "", "Change"},
	}

	var prevCost *float64

	for _, pc := range periodCosts {
		barLength := int((pc.Cost / maxCost) * 40)
		bar := strings.Repeat("█", barLength)

		barColor := pterm.FgBlue.Sprint(bar)
		change := ""

		if prevCost != nil {
			change, barColor = describeChange(*prevCost, pc.Cost, bar)
		}

		tableData = append(tableData, []string{
			pc.Period,
			fmt.Sprintf("$%.2f", pc.Cost),
			barColor,
			change,
		})

		currentCost := pc.Cost
		prevCost = &currentCost
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Fprintln(c.out, "\n"+panel)
}

// describeChange formata a variação entre dois períodos e colore a barra.
func describeChange(prev, cur float64, bar string) (string, string) {
	if prev < 0.01 {
		if cur < 0.01 {
			return pterm.FgYellow.Sprint("0%"), pterm.FgYellow.Sprint(bar)
		}
		return pterm.FgRed.Sprint("N/A"), pterm.FgRed.Sprint(bar)
	}

	changePercent := ((cur - prev) / prev) * 100.0

	switch {
	case math.Abs(changePercent) < 0.01:
		return pterm.FgYellow.Sprint("0%"), pterm.FgYellow.Sprint(bar)
	case changePercent > 999:
		return pterm.FgRed.Sprint(">+999%"), pterm.FgRed.Sprint(bar)
	case changePercent < -999:
		return pterm.FgGreen.Sprint(">-999%"), pterm.FgGreen.Sprint(bar)
	case changePercent > 0:
		return pterm.FgRed.Sprintf("+%.2f%%", changePercent), pterm.FgRed.Sprint(bar)
	default:
		return pterm.FgGreen.Sprintf("%.2f%%", changePercent), pterm.FgGreen.Sprint(bar)
	}
}
