// Package pdf renders the printable quote with the workshop letterhead.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tpworkshop/garage-quotes/internal/models"
	"github.com/tpworkshop/garage-quotes/internal/services"
	"github.com/tpworkshop/garage-quotes/internal/view"
)

var letterhead = []string{
	"GARA Ô TÔ THIÊN PHÚC WORKSHOP",
	"Địa chỉ: 72 Trần Đại Nghĩa, Phường Tân Tạo A, quận Bình Tân, TP. Hồ Chí Minh",
	"Tel: 093.82.84.079 hoặc 096.444.62.64 — Website: thienphucworkshop.com.vn",
	"Email: thienphucworkshop@gmail.com — Số TK: 060333030813 - SACOMBANK - CN Hồ Chí Minh",
}

var notes = []string{
	"Lưu ý: Báo giá này chỉ có giá trị trong vòng 07 ngày kể từ ngày xuất phiếu và không có giá trị thanh toán.",
	"Những chi phí phát sinh ngoài phần báo giá sẽ được thông báo sau khi tháo ra kiểm tra trực tiếp.",
	"- Phụ tùng thay thế chính hãng được bảo hành 6 tháng hoặc 10.000 km tùy điều kiện nào đến trước.",
	"- Đồng sơn bảo hành 6 tháng hoặc 6.000 km tùy điều kiện nào đến trước.",
	"- Công việc thực hiện sửa chữa tại xưởng dịch vụ bảo hành 3 tháng hoặc 3.000 km tùy điều kiện nào đến trước.",
	"- Đối với trường hợp đặt phụ tùng, khách hàng vui lòng đặt cọc 100% giá trị phụ tùng.",
	"Rất hân hạnh được đón tiếp và làm việc cùng quý khách hàng!",
}

// QuotePDF renders the quote and its computed summary as a PDF document.
func QuotePDF(q models.Quote, sum services.QuoteSummary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(12).
		WithRightMargin(12).
		WithTopMargin(10).
		Build()
	m := maroto.New(cfg)

	m.AddRow(7, text.NewCol(12, letterhead[0], props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Center}))
	for _, line := range letterhead[1:] {
		m.AddRow(4, text.NewCol(12, line, props.Text{Size: 8, Align: align.Center}))
	}
	m.AddRow(10, text.NewCol(12, "PHIẾU BÁO GIÁ SỬA CHỮA", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center, Top: 3}))
	m.AddRow(5, text.NewCol(12, fmt.Sprintf("Ngày: %s — Số: %s", q.Date.Format("02-01-2006"), q.No), props.Text{Size: 9, Align: align.Center}))

	m.AddRow(6,
		text.NewCol(6, "Khách hàng: "+q.CustomerName, props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(6, "Biển số: "+orNA(q.CarRegistrationNumber), props.Text{Size: 9}),
	)
	m.AddRow(5,
		text.NewCol(6, "Điện thoại: "+q.PhoneNumber, props.Text{Size: 9}),
		text.NewCol(6, fmt.Sprintf("Số KM: %d", q.CarOdometer), props.Text{Size: 9}),
	)
	m.AddRow(5,
		text.NewCol(6, "Địa chỉ: "+orNA(q.Address), props.Text{Size: 9}),
		text.NewCol(6, "Loại xe: "+orNA(q.CarModel), props.Text{Size: 9}),
	)
	m.AddRow(5,
		text.NewCol(6, "Mã số thuế: "+orNA(q.TaxCode), props.Text{Size: 9}),
		text.NewCol(6, "VIN: "+orNA(q.CarVin), props.Text{Size: 9}),
	)

	for _, cat := range sum.Categories {
		m.AddRow(8,
			text.NewCol(8, cat.Label, props.Text{Size: 10, Style: fontstyle.Bold, Top: 2}),
			text.NewCol(4, view.Money(cat.Total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right, Top: 2}),
		)
		m.AddRow(5,
			text.NewCol(1, "STT", props.Text{Size: 8, Style: fontstyle.Bold}),
			text.NewCol(4, "Hạng mục", props.Text{Size: 8, Style: fontstyle.Bold}),
			text.NewCol(2, "Đơn giá", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(1, "SL", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(1, "ĐVT", props.Text{Size: 8, Style: fontstyle.Bold}),
			text.NewCol(1, "VAT%", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(2, "Thành tiền", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
		)
		for i, line := range cat.Lines {
			p := line.Product
			m.AddRow(5,
				text.NewCol(1, fmt.Sprintf("%d", i+1), props.Text{Size: 8}),
				text.NewCol(4, p.Name, props.Text{Size: 8}),
				text.NewCol(2, view.Money(float64(p.UnitPrice)), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(1, fmt.Sprintf("%d", p.Quantity), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(1, p.Unit, props.Text{Size: 8}),
				text.NewCol(1, fmt.Sprintf("%d", p.VAT), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(2, view.Money(line.Total), props.Text{Size: 8, Align: align.Right}),
			)
		}
	}

	m.AddRow(6,
		text.NewCol(8, "Thành tiền (chưa VAT):", props.Text{Size: 9, Top: 2}),
		text.NewCol(4, view.Money(sum.Subtotal), props.Text{Size: 9, Align: align.Right, Top: 2}),
	)
	m.AddRow(5,
		text.NewCol(8, "Thuế VAT:", props.Text{Size: 9}),
		text.NewCol(4, view.Money(sum.VAT), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(8, "Thành tiền:", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(4, view.Money(sum.Total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	m.AddRow(7, text.NewCol(12, "Ghi chú", props.Text{Size: 9, Style: fontstyle.Bold, Top: 3}))
	for _, n := range notes {
		m.AddRow(4, text.NewCol(12, n, props.Text{Size: 7}))
	}

	m.AddRow(8,
		text.NewCol(4, "CHẤP THUẬN CỦA KHÁCH HÀNG", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Top: 4}),
		text.NewCol(4, "GIÁM ĐỐC DỊCH VỤ", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Top: 4}),
		text.NewCol(4, "CỐ VẤN DỊCH VỤ", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Top: 4}),
	)
	m.AddRow(4,
		text.NewCol(4, "(Ký và ghi rõ họ tên)", props.Text{Size: 7, Align: align.Center}),
		text.NewCol(4, "(Ký và ghi rõ họ tên)", props.Text{Size: 7, Align: align.Center}),
		text.NewCol(4, "(Ký và ghi rõ họ tên)", props.Text{Size: 7, Align: align.Center}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
