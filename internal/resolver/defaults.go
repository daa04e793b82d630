package resolver

import "github.com/Vovarama1992/whatsapp-health-bot/internal/language"

// DefaultReplies is the last tier: a scoped disclaimer per language.
var DefaultReplies = map[language.Tag]string{
	language.English: "Sorry, I don't understand. Please ask about flu, dengue, malaria, diabetes, vaccines or other health topics. For specific medical advice, please consult a healthcare professional.",
	language.Hindi:   "माफ करें, मैं समझ नहीं पाया। कृपया फ्लू, डेंगू, मलेरिया, डायबिटीज या टीकाकरण के बारे में पूछें। विशिष्ट चिकित्सा सलाह के लिए किसी स्वास्थ्य पेशेवर से सलाह लें।",
	language.Oriya:   "ଦୁଃଖିତ, ମୁଁ ବୁଝିପାରିଲି ନାହିଁ। ଦୟାକରି ଫ୍ଲୁ, ଡେଙ୍ଗୁ, ମ୍ୟାଲେରିଆ, ମଧୁମେହ କିମ୍ବା ଟିକାକରଣ ବିଷୟରେ ପଚାରନ୍ତୁ। ନିର୍ଦ୍ଦିଷ୍ଟ ଚିକିତ୍ସା ପରାମର୍ଶ ପାଇଁ ଜଣେ ସ୍ୱାସ୍ଥ୍ୟ ବିଶେଷଜ୍ଞଙ୍କ ପରାମର୍ଶ ନିଅନ୍ତୁ।",
}
