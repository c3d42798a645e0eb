package gen

// Fixed instructions sent with every request. Wording is part of the product
// behavior (the price prompt's "no currency symbols" clause pairs with the
// sanitizer in price.go), so treat edits as behavior changes.

const describePrompt = "Analyze the item in the image(s). Generate a catchy, SEO-friendly product title (under 80 characters) and a detailed, persuasive product description. Highlight key features and potential uses."

const pricePrompt = "Based on the item in the image(s), act as a pricing expert. Search online marketplaces to determine a competitive but fair market price for this item if sold secondhand. Provide only a single numerical value representing the price in USD. Do not include currency symbols or any explanatory text."
