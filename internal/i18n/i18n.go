// Package i18n holds the vi/en message tables. Vietnamese is the product
// language (the printable quote is Vietnamese); English exists for the
// back-office JSON consumers and curious browsers.
package i18n

import "strings"

const defaultLang = "vi"

var messages = map[string]map[string]string{
	"vi": {
		"app_title":            "Phiếu báo giá sửa chữa",
		"nav_home":             "Trang chủ",
		"nav_quotes":           "Phiếu báo giá",
		"quote_new":            "Tạo mới",
		"quote_edit":           "Sửa",
		"quote_delete":         "Xóa",
		"quote_print":          "In phiếu",
		"quote_no":             "Số",
		"customer_name":        "Khách hàng",
		"phone_number":         "Điện thoại",
		"address":              "Địa chỉ",
		"tax_code":             "Mã số thuế",
		"car_model":            "Mẫu xe",
		"car_reg_no":           "Biển số xe",
		"car_odometer":         "Số km",
		"car_vin":              "VIN",
		"quote_date":           "Ngày",
		"product_add":          "Thêm sản phẩm",
		"product_name":         "Tên sản phẩm",
		"unit_price":           "Đơn giá",
		"unit":                 "Đơn vị tính",
		"quantity":             "Số lượng",
		"category":             "Loại sản phẩm",
		"line_total":           "Thành tiền",
		"subtotal":             "Thành tiền (chưa VAT)",
		"vat_amount":           "Thuế VAT",
		"grand_total":          "Thành tiền",
		"actions":              "Hành động",
		"not_found":            "Không tìm thấy",
		"required":             "Bắt buộc",
		"too_short":            "Quá ngắn",
		"invalid_value":        "Giá trị không hợp lệ",
		"out_of_range":         "Ngoài phạm vi cho phép",
		"quote_deleted":        "Đã xóa phiếu báo giá",
		"quote_saved":          "Đã lưu phiếu báo giá",
		"product_saved":        "Đã lưu sản phẩm",
		"product_deleted":      "Đã xóa sản phẩm",
		"save_failed":          "Lưu thất bại, vui lòng thử lại",
		"must_be_non_negative": "Phải là số không âm",
	},
	"en": {
		"app_title":            "Repair price quotes",
		"nav_home":             "Home",
		"nav_quotes":           "Quotes",
		"quote_new":            "New quote",
		"quote_edit":           "Edit",
		"quote_delete":         "Delete",
		"quote_print":          "Print",
		"quote_no":             "No",
		"customer_name":        "Customer",
		"phone_number":         "Phone",
		"address":              "Address",
		"tax_code":             "Tax code",
		"car_model":            "Car model",
		"car_reg_no":           "Registration plate",
		"car_odometer":         "Odometer",
		"car_vin":              "VIN",
		"quote_date":           "Date",
		"product_add":          "Add product",
		"product_name":         "Product name",
		"unit_price":           "Unit price",
		"unit":                 "Unit",
		"quantity":             "Quantity",
		"category":             "Category",
		"line_total":           "Line total",
		"subtotal":             "Subtotal (before VAT)",
		"vat_amount":           "VAT",
		"grand_total":          "Total",
		"actions":              "Actions",
		"not_found":            "Not found",
		"required":             "Required",
		"too_short":            "Too short",
		"invalid_value":        "Invalid value",
		"out_of_range":         "Out of range",
		"quote_deleted":        "Quote deleted",
		"quote_saved":          "Quote saved",
		"product_saved":        "Product saved",
		"product_deleted":      "Product deleted",
		"save_failed":          "Save failed, please retry",
		"must_be_non_negative": "Must not be negative",
	},
}

// T translates code for lang. Unknown languages fall back to Vietnamese;
// unknown codes fall back to the code itself so missing keys are visible.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[defaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		switch {
		case strings.HasPrefix(tag, "en"):
			return "en"
		case strings.HasPrefix(tag, "vi"):
			return "vi"
		}
	}
	return defaultLang
}
