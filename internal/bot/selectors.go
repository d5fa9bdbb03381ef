package bot

import "github.com/mbraga/temu-price-bot/internal/browser"

// Selector chains for every page interaction, ordered most specific first.
// Temu's obfuscated class names rot quickly, so each chain ends in broader
// structural or text-based fallbacks.

var privacyBannerStrategies = []browser.Strategy{
	browser.XPath("//div[contains(@class, '_1ay60Jd-')]", browser.StateVisible),
	browser.XPath("//div[contains(@class, 'privacy-banner')]", browser.StateVisible),
	browser.XPath("//div[contains(@class, 'cookie-banner')]", browser.StateVisible),
	browser.XPath("//div[contains(text(), 'We use cookies')]", browser.StateVisible),
	browser.XPath("//div[contains(text(), 'Your privacy')]", browser.StateVisible),
	browser.XPath("//div[@id='privacy-banner']", browser.StateVisible),
	browser.CSS("div[class*='privacy']", browser.StateVisible),
	browser.CSS("div[class*='cookie']", browser.StateVisible),
	browser.XPath("//div[@role='dialog' and contains(@aria-label, 'privacy')]", browser.StateVisible),
}

var acceptAllStrategies = []browser.Strategy{
	browser.XPath("//div[@role='button']//span[contains(., 'Accept all')]", browser.StateClickable),
	browser.XPath("//button[contains(., 'Accept all')]", browser.StateClickable),
	browser.XPath("//div[contains(., 'Accept all')]", browser.StateClickable),
	browser.XPath("//span[contains(., 'Accept all')]/ancestor::button", browser.StateClickable),
	browser.XPath("//div[@data-uniqid and contains(., 'Accept all')]", browser.StateClickable),
	browser.CSS("button[id*='accept']", browser.StateClickable),
	browser.CSS("div[class*='accept']", browser.StateClickable),
	browser.XPath("//div[contains(@class, 'KmT5vb1F')]/div[contains(., 'Accept all')]", browser.StateClickable),
	browser.XPath("//div[contains(@class, 'privacy-button-accept')]", browser.StateClickable),
}

var (
	emailField     = browser.XPath("//input[@aria-label='Email or phone number']", browser.StateVisible)
	passwordField  = browser.XPath("//input[@aria-label='Password']", browser.StateVisible)
	submitButton   = browser.XPath("//button[@id='submit-button']", browser.StateClickable)
	accountMarker  = browser.XPath("//div[text()='Orders & Account']", browser.StatePresent)
	accountButton  = browser.XPath("//div[text()='Orders & Account']", browser.StateClickable)
	orderContainer = browser.XPath("//div[contains(@class, '_2DCuXnC8')]", browser.StatePresent)
)

var (
	viewMoreButton   = browser.XPath("//span[contains(text(),'View more')]/parent::div[@role='button']", browser.StateClickable)
	viewMoreMarker   = browser.XPath("//span[contains(text(),'View more')]/parent::div[@role='button']", browser.StatePresent)
	loadingIndicator = browser.XPath("//span[contains(text(),'Loading')]", browser.StatePresent)
)

var orderListStrategies = []browser.Strategy{
	browser.XPath("//div[contains(@class, '_2DCuXnC8') and @data-uniqid]", browser.StatePresent),
	browser.XPath("//span[contains(text(),'PO-')]/ancestor::div[contains(@class, '_2DCuXnC8')]", browser.StatePresent),
	browser.XPath("//span[normalize-space()='View order details']/ancestor::div[contains(@class, '_2DCuXnC8')]", browser.StatePresent),
}

// Scoped strategies evaluated inside a single order container.
var (
	orderIDStrategies = []browser.Strategy{
		browser.XPath(".//span[contains(@class, 'VlINftPl') and contains(., 'PO-')]", browser.StatePresent),
		browser.XPath(".//span[contains(text(),'PO-')]", browser.StatePresent),
		browser.CSS("._2tnFgQdq", browser.StatePresent),
	}
	orderDateStrategies = []browser.Strategy{
		browser.XPath(".//span[contains(@class, 'VlINftPl')]/span", browser.StatePresent),
		browser.XPath(".//span[contains(@class, '_2tnFgQdq')][2]", browser.StatePresent),
		browser.XPath(".//span[contains(text(),'Order Time:')]/following-sibling::span", browser.StatePresent),
	}
	orderItemsStrategies = []browser.Strategy{
		browser.XPath(".//span[contains(text(),'items:')]", browser.StatePresent),
		browser.XPath(".//span[contains(@class, '_2tnFgQdq')][1]", browser.StatePresent),
	}
)

var detailPageMarker = browser.XPath("//div[@class='_3ofg55P_']", browser.StatePresent)

var trackButtonStrategies = []browser.Strategy{
	browser.CSS("div[class='_2ugbvrpI _3E4sGl93 _28_m8Owy _3RLRwCY0 _1Qlry8Qy'] span[class='_3cgghkPI']", browser.StateClickable),
	browser.XPath("//div[@class='_2ugbvrpI _3E4sGl93 _28_m8Owy _3RLRwCY0 _1Qlry8Qy']//span[@class='_3cgghkPI']", browser.StateClickable),
	browser.XPath("(//span[@class='_3cgghkPI'])[3]", browser.StateClickable),
	browser.XPath("//span[contains(text(),'Track')]", browser.StateClickable),
	browser.CSS("span._3cgghkPI", browser.StateClickable),
	browser.XPath("//div[contains(@class, 'tracking-btn')]", browser.StateClickable),
	browser.CSS(".track-button", browser.StateClickable),
}

var (
	trackingPanel = browser.CSS(".trackingInfoWrap-1NRtF", browser.StatePresent)
	deliveryInfo  = browser.XPath("//div[@class='deliveryInfoWrap-12bOU']", browser.StatePresent)
)

var trackingNumberStrategies = []browser.Strategy{
	browser.XPath("//div[contains(@class, 'serviceProviderNumber-VPeGz')]", browser.StatePresent),
	browser.CSS(".serviceProviderNumber-VPeGz", browser.StatePresent),
	browser.XPath("//div[contains(text(), 'Tracking Number:')]/following-sibling::div", browser.StatePresent),
	browser.XPath("//div[contains(text(), 'Tracking Number:')]", browser.StatePresent),
	browser.CSS(".trackingInfo-zPYF_", browser.StatePresent),
	browser.XPath("//div[@class='trackingInfo-zPYF_']", browser.StatePresent),
	browser.XPath("//div[contains(@class, 'tracking-number')]", browser.StatePresent),
}

var (
	itemNameText  = browser.XPath("//img[@aria-label='goods banner']/../following-sibling::div/span[@role='button']//span", browser.StatePresent)
	orderTimeText = browser.XPath("//div[contains(text(), 'Order time:')]", browser.StatePresent)
)

var adjustmentButtonStrategies = []browser.Strategy{
	browser.XPath("//div[contains(@class, '_1TeP2qll') and contains(., 'Price adjustment')]", browser.StatePresent),
	browser.XPath("//div[contains(@class, '_2bQDCYwF') and contains(., 'Price adjustment')]", browser.StatePresent),
	browser.XPath("//div[@role='button' and .//span[contains(text(), 'Price adjustment')]]", browser.StatePresent),
	browser.XPath("//div[contains(@class, '_1TeP2qll') and contains(., 'Ajuste de preço')]", browser.StatePresent),
	browser.XPath("//div[contains(@class, '_2bQDCYwF') and contains(., 'Ajuste de preço')]", browser.StatePresent),
	browser.XPath("//div[@role='button' and .//span[contains(text(), 'Ajuste de preço')]]", browser.StatePresent),
	browser.XPath("//div[contains(@class, 'adjustment') and contains(., 'Price')]", browser.StatePresent),
	browser.XPath("//div[contains(@data-uniqid, 'price-adjustment')]", browser.StatePresent),
	browser.CSS("div[class*='adjustment']", browser.StatePresent),
	browser.XPath("//div[contains(@data-testid, 'price-adjustment')]", browser.StatePresent),
	browser.XPath("//div[contains(@data-role, 'price-adjustment')]", browser.StatePresent),
	browser.XPath("//div[contains(@id, 'priceAdjustmentBtn')]", browser.StatePresent),
}

// Text the adjustment button must actually carry; guards against a broad
// fallback selector matching an unrelated element.
var adjustmentButtonTexts = []string{"Price adjustment", "Ajuste de preço"}

var (
	anyDialog         = browser.XPath("//div[@role='dialog']", browser.StateVisible)
	dialogCloseButton = browser.XPath("//div[@role='button' and .//*[local-name()='svg']]", browser.StatePresent)
)

// Adjustment wizard headings and buttons, matched by the visible text of the
// current storefront language.
var (
	adjustmentHeading = browser.XPath(
		"//div[contains(text(), 'Request a price adjustment') or contains(text(), 'Solicitar ajuste de preço')]",
		browser.StatePresent)
	refundMethodHeading = browser.XPath(
		"//div[contains(text(), 'Select refund method') or contains(text(), 'Selecionar método de reembolso')]",
		browser.StatePresent)
	refundAmountElements = browser.XPath("//div[contains(@class, 'refund-amount')]", browser.StatePresent)
)

var requestButtonTexts = []string{
	"Request a price adjustment",
	"Solicitar ajuste de preço",
	"Request adjustment",
	"Solicitar reembolso",
}

var refundMethodTexts = []string{
	"Receive in seconds",
	"Receber em segundos",
	"Instant refund",
	"Reembolso instantâneo",
}

var submitButtonTexts = []string{
	"Submit",
	"Enviar",
	"Confirm",
	"Confirmar",
	"Request",
	"Solicitar",
}

var confirmationTexts = []string{
	"Your refund is being processed",
	"Reembolso está sendo processado",
	"request has been submitted",
	"solicitação foi enviada",
	"successfully requested",
	"solicitado com sucesso",
}

func buttonWithText(text string) browser.Strategy {
	return browser.XPath("//div[@role='button' and contains(., '"+text+"')]", browser.StatePresent)
}

func elementWithText(text string) browser.Strategy {
	return browser.XPath("//div[contains(., '"+text+"')]", browser.StatePresent)
}

func anyWithText(text string) browser.Strategy {
	return browser.XPath("//*[contains(text(), '"+text+"')]", browser.StatePresent)
}
