package docx

import "strings"

// appendTable flattens a table row by row, cell by cell. Cells that continue
// a vertical merge repeat no text; nested tables are flattened in place after
// the paragraphs of the cell that holds them.
func appendTable(lines []string, tbl *tableXML) []string {
	for _, row := range tbl.Rows {
		for i := range row.Cells {
			lines = appendCell(lines, &row.Cells[i])
		}
	}
	return lines
}

func appendCell(lines []string, cell *tableCellXML) []string {
	if cell.Properties.VMerge != nil && cell.Properties.VMerge.Val != "restart" {
		return lines
	}

	text := cellText(cell)
	if strings.TrimSpace(text) != "" {
		lines = append(lines, strings.Split(text, "\n")...)
	}
	for i := range cell.Tables {
		lines = appendTable(lines, &cell.Tables[i])
	}
	return lines
}

// cellText joins the non-empty paragraphs of a cell with newlines.
func cellText(cell *tableCellXML) string {
	var parts []string
	for i := range cell.Paragraphs {
		text := normalize(cell.Paragraphs[i].Text())
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
